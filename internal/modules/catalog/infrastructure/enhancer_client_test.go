package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"bistroDesk/internal/modules/catalog/domain"
)

func TestRewriteMergesNamesAndDescriptions(t *testing.T) {
	original := []domain.MenuItem{
		{ID: domain.PersistedID("a"), Name: "Soup", Description: "Plain soup", Price: 90, Category: domain.CategoryStarters},
		{ID: domain.PersistedID("b"), Name: "Cake", Description: "Plain cake", Price: 150, Category: domain.CategoryDesserts},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/enhance" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Items []domain.MenuItem `json:"items"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		for i := range req.Items {
			req.Items[i].Name = "Velvety " + req.Items[i].Name
			req.Items[i].Price = 0 // must not leak through
		}
		json.NewEncoder(w).Encode(map[string]any{"items": req.Items})
	}))
	defer server.Close()

	client := NewEnhancerClient(server.URL, 0)
	got, err := client.Rewrite(context.Background(), original)
	if err != nil {
		t.Fatalf("Rewrite: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("items = %d, want 2", len(got))
	}
	if got[0].Name != "Velvety Soup" || got[1].Name != "Velvety Cake" {
		t.Fatalf("names = %q, %q", got[0].Name, got[1].Name)
	}
	if got[0].Price != 90 || got[1].Price != 150 {
		t.Fatalf("prices changed: %v, %v", got[0].Price, got[1].Price)
	}
	if got[0].ID.String() != "a" || got[1].ID.String() != "b" {
		t.Fatalf("ids changed: %s, %s", got[0].ID.String(), got[1].ID.String())
	}
}

func TestRewriteRejectsDroppedItems(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"items": []domain.MenuItem{}})
	}))
	defer server.Close()

	client := NewEnhancerClient(server.URL, 0)
	original := []domain.MenuItem{{ID: domain.PersistedID("a"), Name: "Soup", Price: 90, Category: domain.CategoryStarters}}
	if _, err := client.Rewrite(context.Background(), original); err == nil {
		t.Fatal("expected an error for a short response")
	}
}

func TestRewriteRejectsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewEnhancerClient(server.URL, 0)
	if _, err := client.Rewrite(context.Background(), nil); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestRewriteUnconfigured(t *testing.T) {
	client := NewEnhancerClient("", 0)
	if client.Configured() {
		t.Fatal("blank URL reported as configured")
	}
	if _, err := client.Rewrite(context.Background(), nil); err == nil {
		t.Fatal("expected an error when unconfigured")
	}
}
