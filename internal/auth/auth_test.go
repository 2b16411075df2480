package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
	"github.com/benjamintian2005/AITripPlanner/internal/engine/storage"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		c    Credentials
		want string
	}{
		{"empty email", Credentials{Email: "  ", Password: "secret1"}, "Email is required"},
		{"empty password", Credentials{Email: "a@b.co", Password: " "}, "Password is required"},
		{"email checked before password", Credentials{}, "Email is required"},
		{"register needs name", Credentials{Mode: ModeRegister, Email: "a@b.co", Password: "secret1"}, "Name is required"},
		{"login ignores name", Credentials{Email: "a@b.co", Password: "secret1"}, ""},
		{"bad email", Credentials{Email: "a@b", Password: "secret1"}, "Please enter a valid email address"},
		{"email with space", Credentials{Email: "a b@c.io", Password: "secret1"}, "Please enter a valid email address"},
		{"short password", Credentials{Email: "a@b.co", Password: "12345"}, "Password must be at least 6 characters"},
		{"name before email format", Credentials{Mode: ModeRegister, Email: "bad", Password: "1"}, "Name is required"},
		{"valid register", Credentials{Mode: ModeRegister, Name: "Ada", Email: "ada@example.com", Password: "123456"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.c)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Notice.Title != "Validation Error" || ve.Notice.Message != tt.want {
				t.Errorf("notice = %+v, want %q", ve.Notice, tt.want)
			}
		})
	}
}

func TestModeToggle(t *testing.T) {
	if ModeLogin.Toggle() != ModeRegister || ModeRegister.Toggle() != ModeLogin {
		t.Errorf("toggle should flip the mode")
	}
}

type countingAuth struct{ calls int }

func (c *countingAuth) Login(ctx context.Context, email, password string) (User, error) {
	c.calls++
	return User{Email: email}, nil
}

func (c *countingAuth) Register(ctx context.Context, name, email, password string) (User, error) {
	c.calls++
	return User{Name: name, Email: email}, nil
}

func TestSubmit_ValidatesBeforeBackend(t *testing.T) {
	a := &countingAuth{}
	if _, err := Submit(context.Background(), a, Credentials{Email: "nope"}); err == nil {
		t.Fatal("expected validation error")
	}
	if a.calls != 0 {
		t.Errorf("backend called %d times for invalid input", a.calls)
	}
	u, err := Submit(context.Background(), a, Credentials{Mode: ModeRegister, Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	if err != nil || u.Name != "Ada" || a.calls != 1 {
		t.Errorf("register: %+v %v calls=%d", u, err, a.calls)
	}
}

func TestRemoteAuthenticator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login":
			if body["password"] != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"Wrong password"}`))
				return
			}
			w.Write([]byte(`{"token":"t","user":{"id":"42","name":"Ada","email":"` + body["email"] + `"}}`))
		case "/auth/register":
			w.WriteHeader(http.StatusConflict)
			w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	a := NewRemoteAuthenticator(httpx.NewClient(httpx.Options{Timeout: 2 * time.Second}), srv.URL)
	ctx := context.Background()

	u, err := a.Login(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if u.ID != "42" || u.Email != "ada@example.com" {
		t.Errorf("user = %+v", u)
	}

	_, err = a.Login(ctx, "ada@example.com", "wrong!")
	var re *RemoteError
	if !errors.As(err, &re) || re.Message != "Wrong password" || re.StatusCode != http.StatusUnauthorized {
		t.Errorf("login failure = %v", err)
	}
	if n := NoticeFor(err); n.Title != "Error" || n.Message != "Wrong password" {
		t.Errorf("notice = %+v", n)
	}

	_, err = a.Register(ctx, "Ada", "ada@example.com", "secret1")
	if !errors.As(err, &re) || re.Message != "Registration failed" {
		t.Errorf("register failure = %v", err)
	}
}

func TestLocalAuthenticator(t *testing.T) {
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	a := NewLocalAuthenticator(store)
	a.cost = bcrypt.MinCost
	ctx := context.Background()

	u, err := a.Register(ctx, "Ada", "Ada@Example.com", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ada@example.com" || u.Name != "Ada" {
		t.Errorf("user = %+v", u)
	}

	if _, err := a.Register(ctx, "Ada", "ada@example.com", "other12"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate register = %v", err)
	}

	if _, err := a.Login(ctx, "ada@example.com", "secret1"); err != nil {
		t.Errorf("login: %v", err)
	}
	if _, err := a.Login(ctx, "ada@example.com", "secret2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v", err)
	}
	if _, err := a.Login(ctx, "bob@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown account = %v", err)
	}
}
