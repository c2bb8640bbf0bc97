package scheduler

import (
	"context"
	"fmt"

	"leadflow_backend/internal/enrichment/service"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	enrichment *service.Service
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, enrichment *service.Service, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		enrichment: enrichment,
		log:        log,
	}

	mux.HandleFunc(TaskBulkImport, w.handleBulkImport)
	mux.HandleFunc(TaskLeadEmail, w.handleLeadEmail)

	return w, nil
}

// handleBulkImport walks pages sequentially from the starting page until
// MaxPages is reached or the provider reports no further pages. A partial
// run is not retried wholesale; each completed page is already persisted.
func (w *Worker) handleBulkImport(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseBulkImportPayload(task)
	if err != nil {
		return err
	}

	maxPages := payload.MaxPages
	if maxPages < 1 {
		maxPages = 1
	}

	req := payload.Filter
	if req.Page < 1 {
		req.Page = 1
	}

	for page := 0; page < maxPages; page++ {
		resp, err := w.enrichment.BulkImport(ctx, req)
		if err != nil {
			return fmt.Errorf("bulk import page %d: %w", req.Page, err)
		}

		w.log.Info("bulk import page processed",
			"page", resp.Pagination.Page, "imported", resp.Imported, "failed", resp.Failed)

		if resp.Pagination.Page >= resp.Pagination.TotalPages {
			break
		}
		req.Page = resp.Pagination.Page + 1
	}

	return nil
}

func (w *Worker) handleLeadEmail(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadEmailPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	resp, err := w.enrichment.EnrichEmail(ctx, leadID)
	if err != nil {
		return err
	}

	w.log.Info("lead email enrichment completed", "leadId", leadID, "found", resp.Found)
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
