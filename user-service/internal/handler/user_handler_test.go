package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/farahsharshar/v-banking-system/shared/errs"
	"github.com/farahsharshar/v-banking-system/shared/models"
	"github.com/farahsharshar/v-banking-system/user-service/internal/service"
)

// ---- mock implementations ----

type mockUsers struct {
	registerFn func(reg service.Registration) (*models.User, error)
	loginFn    func(username, password string) (string, *models.User, error)
	profileFn  func(userID uuid.UUID) (*models.UserProfileView, error)
}

func (m *mockUsers) Register(_ context.Context, reg service.Registration) (*models.User, error) {
	if m.registerFn != nil {
		return m.registerFn(reg)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUsers) Login(_ context.Context, username, password string) (string, *models.User, error) {
	if m.loginFn != nil {
		return m.loginFn(username, password)
	}
	return "", nil, fmt.Errorf("not configured")
}

func (m *mockUsers) GetProfile(_ context.Context, userID uuid.UUID) (*models.UserProfileView, error) {
	if m.profileFn != nil {
		return m.profileFn(userID)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	}
}

func newUserTestRouter(users Users, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewUserHandler(users)
	r.POST("/users/register", h.Register)
	r.POST("/users/login", h.Login)
	r.GET("/users/:userId/profile", h.GetProfile)
	r.GET("/users/:userId", fakeAuth(authUserID), h.GetUser)
	return r
}

func doUserRequest(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const validRegisterBody = `{"username":"tala","password":"s3cretpass","email":"tala@example.com","firstName":"Tala","lastName":"Hassan"}`

// ---- tests ----

func TestRegister(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		registerFn func(reg service.Registration) (*models.User, error)
		wantStatus int
	}{
		{
			name: "valid registration",
			body: validRegisterBody,
			registerFn: func(reg service.Registration) (*models.User, error) {
				if reg.Username != "tala" || reg.Email != "tala@example.com" {
					return nil, fmt.Errorf("wrong registration: %+v", reg)
				}
				return &models.User{ID: uuid.New(), Username: reg.Username, Email: reg.Email}, nil
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "malformed body",
			body:       `{"username":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       `{"username":"tala","password":"short","email":"tala@example.com","firstName":"Tala","lastName":"Hassan"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid email",
			body:       `{"username":"tala","password":"s3cretpass","email":"not-an-email","firstName":"Tala","lastName":"Hassan"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "taken username maps to 409",
			body: validRegisterBody,
			registerFn: func(service.Registration) (*models.User, error) {
				return nil, errs.ErrConflict
			},
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newUserTestRouter(&mockUsers{registerFn: tt.registerFn}, "")
			w := doUserRequest(t, r, http.MethodPost, "/users/register", tt.body)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestLogin(t *testing.T) {
	user := &models.User{ID: uuid.New(), Username: "tala"}

	t.Run("valid credentials return a token", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{loginFn: func(username, password string) (string, *models.User, error) {
			if username != "tala" || password != "s3cretpass" {
				return "", nil, errs.ErrInvalidCredentials
			}
			return "token-123", user, nil
		}}, "")
		w := doUserRequest(t, r, http.MethodPost, "/users/login", `{"username":"tala","password":"s3cretpass"}`)
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
		var body map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if body["token"] != "token-123" {
			t.Errorf("unexpected token: %v", body["token"])
		}
	})

	t.Run("wrong password maps to 401", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{loginFn: func(string, string) (string, *models.User, error) {
			return "", nil, errs.ErrInvalidCredentials
		}}, "")
		w := doUserRequest(t, r, http.MethodPost, "/users/login", `{"username":"tala","password":"wrong-pass"}`)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("missing password", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{}, "")
		w := doUserRequest(t, r, http.MethodPost, "/users/login", `{"username":"tala"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}

func TestGetProfile(t *testing.T) {
	userID := uuid.New()

	t.Run("returns the profile", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) {
			return &models.UserProfileView{UserID: id, Username: "tala", Email: "tala@example.com"}, nil
		}}, "")
		w := doUserRequest(t, r, http.MethodGet, "/users/"+userID.String()+"/profile", "")
		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var got models.UserProfileView
		if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
			t.Fatalf("invalid response body: %v", err)
		}
		if got.UserID != userID || got.Username != "tala" {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("unknown user maps to 404", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{profileFn: func(uuid.UUID) (*models.UserProfileView, error) {
			return nil, errs.ErrNotFound
		}}, "")
		w := doUserRequest(t, r, http.MethodGet, "/users/"+userID.String()+"/profile", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", w.Code)
		}
	})
}

func TestGetUser(t *testing.T) {
	userID := uuid.New()

	t.Run("user reads their own record", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{profileFn: func(id uuid.UUID) (*models.UserProfileView, error) {
			return &models.UserProfileView{UserID: id, Username: "tala"}, nil
		}}, userID.String())
		w := doUserRequest(t, r, http.MethodGet, "/users/"+userID.String(), "")
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
		}
	})

	t.Run("reading another user's record maps to 403", func(t *testing.T) {
		r := newUserTestRouter(&mockUsers{}, uuid.NewString())
		w := doUserRequest(t, r, http.MethodGet, "/users/"+userID.String(), "")
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", w.Code)
		}
	})
}
