package store

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSignInDecodesSession(t *testing.T) {
	var gotPath, gotQuery string
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-1",
			"user": map[string]any{
				"id":            "acct-1",
				"email":         "asha@example.com",
				"user_metadata": map[string]any{"full_name": "Asha Rao"},
			},
		})
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, "anon-key", 0, nil)
	session, err := client.SignIn(context.Background(), "asha@example.com", "pw")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	if gotPath != "/auth/v1/token" || gotQuery != "grant_type=password" {
		t.Fatalf("endpoint = %q?%q", gotPath, gotQuery)
	}
	if gotBody["email"] != "asha@example.com" {
		t.Fatalf("body = %v", gotBody)
	}
	if session.AccessToken != "tok-1" || session.Account.ID != "acct-1" || session.Account.FullName != "Asha Rao" {
		t.Fatalf("session = %+v", session)
	}
}

func TestSignInRejectionMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error_description":"Invalid login credentials"}`))
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, "anon-key", 0, nil)
	_, err := client.SignIn(context.Background(), "asha@example.com", "wrong")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("error = %v, want ErrAuthFailed", err)
	}
	if !strings.Contains(err.Error(), "Invalid login credentials") {
		t.Fatalf("error message = %q", err.Error())
	}
}

func TestSignUpPendingConfirmation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// Confirmation-required deployments return the account without a session.
		json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "email": "new@example.com"})
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, "anon-key", 0, nil)
	_, err := client.SignUp(context.Background(), "new@example.com", "pw", "New User")
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("error = %v, want ErrAuthFailed", err)
	}
	if !strings.Contains(err.Error(), "confirmation pending") {
		t.Fatalf("error message = %q", err.Error())
	}
}

func TestCurrentSessionResolvesAccount(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"id": "acct-1", "email": "asha@example.com"})
	}))
	defer server.Close()

	client := NewAuthClient(server.URL, "anon-key", 0, nil)
	session, err := client.CurrentSession(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CurrentSession: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("auth = %q", gotAuth)
	}
	if session.AccessToken != "tok-1" || session.Account.Email != "asha@example.com" {
		t.Fatalf("session = %+v", session)
	}
}

func TestCurrentSessionBlankToken(t *testing.T) {
	client := NewAuthClient("http://localhost:54321", "anon-key", 0, nil)
	if _, err := client.CurrentSession(context.Background(), "  "); !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("error = %v, want ErrAuthFailed", err)
	}
}

func TestNormalizeAuthMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "error_description", body: `{"error_description":"bad"}`, want: "bad"},
		{name: "msg fallback", body: `{"msg":"nope"}`, want: "nope"},
		{name: "message fallback", body: `{"message":"denied"}`, want: "denied"},
		{name: "not json", body: `<html>`, want: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeAuthMessage([]byte(tc.body)); got != tc.want {
				t.Fatalf("message = %q, want %q", got, tc.want)
			}
		})
	}
}
