package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leavehub/leavehub/internal/domain/user"
	"github.com/leavehub/leavehub/internal/http/handlers"
	"github.com/leavehub/leavehub/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake user repo implementing handlers.UserReader and handlers.UserWriter

type fakeUsersRepo struct {
	getByEmailFn func(ctx context.Context, email string) (user.User, error)
	createFn     func(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(ctx, email)
	}

	return user.User{}, user.ErrNotFound
}

func (f *fakeUsersRepo) Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
	if f.createFn != nil {
		return f.createFn(ctx, name, email, passwordHash, role)
	}

	return user.User{}, nil
}

type fakeIssuer struct {
	generateFn func(userID int64, email, role string) (string, error)
}

func (f *fakeIssuer) GenerateToken(userID int64, email, role string) (string, error) {
	if f.generateFn != nil {
		return f.generateFn(userID, email, role)
	}

	return "fake-token", nil
}

// small helper function which returns the gin engine to mount one handler per test

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()

	r.Handle(method, path, h)

	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("correct horse")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	stored := user.User{
		ID:           3,
		Name:         "Sam",
		Email:        "sam@example.com",
		PasswordHash: hash,
		Role:         user.RoleUser,
	}

	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"email": "sam@example.com", "password": "correct horse"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "wrong_password",
			body: `{"email": "sam@example.com", "password": "battery staple"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return stored, nil
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name: "unknown_email",
			body: `{"email": "ghost@example.com", "password": "correct horse"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.getByEmailFn = func(ctx context.Context, email string) (user.User, error) {
					return user.User{}, user.ErrNotFound
				}
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:           "validation_error",
			body:           `{"email": "not-an-email"}`,
			wantStatusCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{})

			r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

			w := doJSON(t, r, http.MethodPost, "/api/auth/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantStatusCode == http.StatusOK {
				var got struct {
					Token string `json:"token"`
				}

				if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
					t.Fatalf("decode response: %v", err)
				}

				if got.Token == "" {
					t.Errorf("expected token in response, body=%s", w.Body.String())
				}
			}
		})
	}
}

// unknown email and wrong password must produce byte-identical bodies
// so callers cannot probe which accounts exist
func TestLoginFailuresIndistinguishable(t *testing.T) {
	hash, err := security.HashPassword("correct horse")

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	repo := &fakeUsersRepo{
		getByEmailFn: func(ctx context.Context, email string) (user.User, error) {
			if email == "sam@example.com" {
				return user.User{ID: 3, Email: email, PasswordHash: hash, Role: user.RoleUser}, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{})
	r := setupRouter(http.MethodPost, "/api/auth/login", h.Login)

	wrongPassword := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email": "sam@example.com", "password": "nope"}`)
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", `{"email": "ghost@example.com", "password": "nope"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("got statuses %d and %d, want both 401", wrongPassword.Code, unknownEmail.Code)
	}

	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Errorf("failure bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoSetUp      func(*fakeUsersRepo)
		wantStatusCode int
	}{
		{
			name: "success",
			body: `{"name": "Sam", "email": "sam@example.com", "password": "longenough"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
					if role != user.RoleUser {
						return user.User{}, errors.New("self-registration must create a plain user, got " + role)
					}
					if passwordHash == "longenough" {
						return user.User{}, errors.New("password stored unhashed")
					}
					return user.User{ID: 1, Name: name, Email: email, Role: role}, nil
				}
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "duplicate_email",
			body: `{"name": "Sam", "email": "sam@example.com", "password": "longenough"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
					return user.User{}, user.ErrEmailTaken
				}
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "password_too_short",
			body:           `{"name": "Sam", "email": "sam@example.com", "password": "short"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "missing_name",
			body:           `{"email": "sam@example.com", "password": "longenough"}`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "repo_error",
			body: `{"name": "Sam", "email": "sam@example.com", "password": "longenough"}`,
			repoSetUp: func(f *fakeUsersRepo) {
				f.createFn = func(ctx context.Context, name, email, passwordHash, role string) (user.User, error) {
					return user.User{}, errors.New("db error")
				}
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			repo := &fakeUsersRepo{}

			if tt.repoSetUp != nil {
				tt.repoSetUp(repo)
			}

			h := handlers.NewAuthHandler(repo, repo, &fakeIssuer{})

			r := setupRouter(http.MethodPost, "/api/auth/register", h.Register)

			w := doJSON(t, r, http.MethodPost, "/api/auth/register", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}
		})
	}
}
