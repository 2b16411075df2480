package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/benjamintian2005/AITripPlanner/internal/engine/httpx"
)

// RemoteError carries the backend's message for a rejected request.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string { return e.Message }

type authResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}

// RemoteAuthenticator posts credentials to <baseURL>/auth/login and /auth/register.
// The returned token is not kept.
type RemoteAuthenticator struct {
	client  *httpx.Client
	baseURL string
}

func NewRemoteAuthenticator(client *httpx.Client, baseURL string) *RemoteAuthenticator {
	return &RemoteAuthenticator{client: client, baseURL: baseURL}
}

func (a *RemoteAuthenticator) Login(ctx context.Context, email, password string) (User, error) {
	payload := map[string]string{"email": email, "password": password}
	return a.post(ctx, "/auth/login", payload, "Login failed")
}

func (a *RemoteAuthenticator) Register(ctx context.Context, name, email, password string) (User, error) {
	payload := map[string]string{"name": name, "email": email, "password": password}
	return a.post(ctx, "/auth/register", payload, "Registration failed")
}

func (a *RemoteAuthenticator) post(ctx context.Context, path string, payload any, fallback string) (User, error) {
	body, err := a.client.PostJSON(ctx, a.baseURL+path, payload)
	if err != nil {
		var se *httpx.StatusError
		if errors.As(err, &se) {
			msg := fallback
			var resp authResponse
			if json.Unmarshal(se.Body, &resp) == nil && resp.Message != "" {
				msg = resp.Message
			}
			return User{}, &RemoteError{StatusCode: se.StatusCode, Message: msg}
		}
		return User{}, fmt.Errorf("%s: %w", fallback, err)
	}

	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return User{}, fmt.Errorf("decoding auth response: %w", err)
	}
	return resp.User, nil
}
