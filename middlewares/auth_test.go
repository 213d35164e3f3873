package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/ray-remotestate/smartcafe/config"
	"github.com/ray-remotestate/smartcafe/middlewares"
	"github.com/ray-remotestate/smartcafe/models"
	"github.com/ray-remotestate/smartcafe/utils"
)

func okHandler(t *testing.T, wantUser uuid.UUID) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := middlewares.GetAuthenticatedUser(r)
		if err != nil {
			t.Errorf("no claims in context: %v", err)
		}
		if wantUser != uuid.Nil && claims.UserID != wantUser {
			t.Errorf("expected user %s, got %s", wantUser, claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	config.SecretKey = []byte("test-secret")

	userID := uuid.New()
	token, err := utils.GenerateAccessToken(userID, models.RoleCustomer)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.token", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			middlewares.AuthMiddleware(okHandler(t, userID)).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestAuthMiddlewareRejectsWrongKey(t *testing.T) {
	config.SecretKey = []byte("signing-key")
	token, err := utils.GenerateAccessToken(uuid.New(), models.RoleCustomer)
	if err != nil {
		t.Fatalf("token generation failed: %v", err)
	}

	config.SecretKey = []byte("different-key")
	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middlewares.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler reached with a token signed by another key")
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRoleBasedMiddleware(t *testing.T) {
	config.SecretKey = []byte("test-secret")

	tests := []struct {
		name       string
		role       models.Role
		allowed    []models.Role
		wantStatus int
	}{
		{"admin allowed", models.RoleAdmin, []models.Role{models.RoleAdmin}, http.StatusOK},
		{"staff allowed alongside admin", models.RoleStaff, []models.Role{models.RoleAdmin, models.RoleStaff}, http.StatusOK},
		{"customer forbidden", models.RoleCustomer, []models.Role{models.RoleAdmin, models.RoleStaff}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := utils.GenerateAccessToken(uuid.New(), tt.role)
			if err != nil {
				t.Fatalf("token generation failed: %v", err)
			}

			req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()

			handler := middlewares.AuthMiddleware(
				middlewares.RoleBasedMiddleware(tt.allowed...)(okHandler(t, uuid.Nil)))
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
		})
	}
}

func TestRoleBasedMiddlewareWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()

	middlewares.RoleBasedMiddleware(models.RoleAdmin)(okHandler(t, uuid.Nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without auth context, got %d", rec.Code)
	}
}
