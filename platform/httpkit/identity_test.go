package httpkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetIdentityWithoutUser(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id := GetIdentity(c)
	if id.IsAuthenticated() {
		t.Fatal("expected unauthenticated identity when no user is set")
	}
	if id.UserID() != uuid.Nil {
		t.Errorf("expected zero user id, got %s", id.UserID())
	}
}

func TestGetIdentityFromContext(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	userID := uuid.New()
	c.Set(ContextUserIDKey, userID)
	c.Set(ContextRolesKey, []string{"admin", "sales"})

	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		t.Fatal("expected authenticated identity")
	}
	if id.UserID() != userID {
		t.Errorf("expected user id %s, got %s", userID, id.UserID())
	}
	if !id.HasRole("admin") {
		t.Error("expected role admin")
	}
	if id.HasRole("viewer") {
		t.Error("did not expect role viewer")
	}
}

func TestMustGetIdentityAbortsWhenUnauthenticated(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	if id := MustGetIdentity(c); id != nil {
		t.Fatal("expected nil identity without authenticated user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		roles      []string
		wantStatus int
	}{
		{"role present", []string{"admin"}, http.StatusOK},
		{"role absent", []string{"sales"}, http.StatusForbidden},
		{"no roles", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			engine.Use(func(c *gin.Context) {
				if tt.roles != nil {
					c.Set(ContextRolesKey, tt.roles)
				}
			})
			engine.DELETE("/leads/:id", RequireRole("admin"), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodDelete, "/leads/123", nil)
			rec := httptest.NewRecorder()
			engine.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}
