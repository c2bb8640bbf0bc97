package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lead is the stored contact record. Provider-sourced fields mirror the
// canonical contact shape so enrichment merges map column for column.
type Lead struct {
	ID              uuid.UUID
	FirstName       string
	LastName        string
	Name            string
	Email           string
	Phone           string
	Title           string
	Company         string
	CompanyDomain   string
	CompanyWebsite  string
	CompanySize     string
	Industry        string
	FoundedYear     string
	CompanyPhone    string
	CompanyLinkedIn string
	City            string
	State           string
	Country         string
	LinkedInURL     string
	TwitterURL      string
	FacebookURL     string
	Status          string
	Score           int
	Source          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const leadColumns = `
	id, first_name, last_name, name, email, phone, title,
	company, company_domain, company_website, company_size, industry,
	founded_year, company_phone, company_linkedin,
	city, state, country, linkedin_url, twitter_url, facebook_url,
	status, score, source, created_at, updated_at`

func scanLead(row pgx.Row) (Lead, error) {
	var l Lead
	err := row.Scan(
		&l.ID, &l.FirstName, &l.LastName, &l.Name, &l.Email, &l.Phone, &l.Title,
		&l.Company, &l.CompanyDomain, &l.CompanyWebsite, &l.CompanySize, &l.Industry,
		&l.FoundedYear, &l.CompanyPhone, &l.CompanyLinkedIn,
		&l.City, &l.State, &l.Country, &l.LinkedInURL, &l.TwitterURL, &l.FacebookURL,
		&l.Status, &l.Score, &l.Source, &l.CreatedAt, &l.UpdatedAt,
	)
	return l, err
}

type UpsertLeadParams struct {
	FirstName       string
	LastName        string
	Name            string
	Email           string
	Phone           string
	Title           string
	Company         string
	CompanyDomain   string
	CompanyWebsite  string
	CompanySize     string
	Industry        string
	FoundedYear     string
	CompanyPhone    string
	CompanyLinkedIn string
	City            string
	State           string
	Country         string
	LinkedInURL     string
	TwitterURL      string
	FacebookURL     string
	Status          string
	Score           int
	Source          string
}

func (r *Repository) Create(ctx context.Context, params UpsertLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			first_name, last_name, name, email, phone, title,
			company, company_domain, company_website, company_size, industry,
			founded_year, company_phone, company_linkedin,
			city, state, country, linkedin_url, twitter_url, facebook_url,
			status, score, source
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23)
		RETURNING `+leadColumns,
		params.FirstName, params.LastName, params.Name, params.Email, params.Phone, params.Title,
		params.Company, params.CompanyDomain, params.CompanyWebsite, params.CompanySize, params.Industry,
		params.FoundedYear, params.CompanyPhone, params.CompanyLinkedIn,
		params.City, params.State, params.Country, params.LinkedInURL, params.TwitterURL, params.FacebookURL,
		params.Status, params.Score, params.Source,
	)
	return scanLead(row)
}

func (r *Repository) Update(ctx context.Context, id uuid.UUID, params UpsertLeadParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			first_name = $2, last_name = $3, name = $4, email = $5, phone = $6, title = $7,
			company = $8, company_domain = $9, company_website = $10, company_size = $11, industry = $12,
			founded_year = $13, company_phone = $14, company_linkedin = $15,
			city = $16, state = $17, country = $18, linkedin_url = $19, twitter_url = $20, facebook_url = $21,
			status = $22, score = $23, source = $24, updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns,
		id,
		params.FirstName, params.LastName, params.Name, params.Email, params.Phone, params.Title,
		params.Company, params.CompanyDomain, params.CompanyWebsite, params.CompanySize, params.Industry,
		params.FoundedYear, params.CompanyPhone, params.CompanyLinkedIn,
		params.City, params.State, params.Country, params.LinkedInURL, params.TwitterURL, params.FacebookURL,
		params.Status, params.Score, params.Source,
	)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// FindByIdentity locates an existing lead by its strongest available
// identity: email first, then the profile URL. Either argument may be
// empty; an empty argument never matches.
func (r *Repository) FindByIdentity(ctx context.Context, email, linkedinURL string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE (email = $1 AND $1 <> '') OR (linkedin_url = $2 AND $2 <> '')
		ORDER BY (email = $1 AND $1 <> '') DESC
		LIMIT 1
	`, email, linkedinURL)
	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type ListLeadsParams struct {
	Status string
	Source string
	Search string
	Limit  int
	Offset int
}

func (r *Repository) List(ctx context.Context, params ListLeadsParams) ([]Lead, int, error) {
	where := []string{"1=1"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if params.Status != "" {
		where = append(where, "status = "+arg(params.Status))
	}
	if params.Source != "" {
		where = append(where, "source = "+arg(params.Source))
	}
	if params.Search != "" {
		p := arg("%" + params.Search + "%")
		where = append(where, "(name ILIKE "+p+" OR email ILIKE "+p+" OR company ILIKE "+p+")")
	}
	clause := strings.Join(where, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM leads WHERE `+clause, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := `SELECT ` + leadColumns + ` FROM leads WHERE ` + clause +
		` ORDER BY created_at DESC LIMIT ` + arg(limit) + ` OFFSET ` + arg(params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lead)
	}
	if rows.Err() != nil {
		return nil, 0, rows.Err()
	}

	return items, total, nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetEmail writes a newly enriched email without touching other columns.
func (r *Repository) SetEmail(ctx context.Context, id uuid.UUID, email string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET email = $2, updated_at = now() WHERE id = $1
	`, id, email)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
