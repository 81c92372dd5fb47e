package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"printshop-backend/internal/apperr"
	"printshop-backend/internal/config"
)

func TestCreatePodOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer pf_test_key" {
			t.Errorf("missing bearer auth, got %q", r.Header.Get("Authorization"))
		}
		var req PodOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.ExternalID != "order-1" {
			t.Errorf("external_id = %q", req.ExternalID)
		}
		if len(req.Items) != 1 || req.Items[0].VariantID != "6239" || req.Items[0].Quantity != 2 {
			t.Errorf("unexpected items: %+v", req.Items)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"result": map[string]any{"id": 42, "status": "draft"},
		})
	}))
	defer srv.Close()

	c := NewPrintfulClient(&config.Printful{BaseApiURL: srv.URL, APIKey: "pf_test_key"})
	result, err := c.CreateOrder(context.Background(), &PodOrderRequest{
		ExternalID: "order-1",
		Recipient:  PodRecipient{Name: "Jane Doe", Address1: "1 Main St", CountryCode: "US", Zip: "10001"},
		Items: []PodOrderItem{
			{VariantID: "6239", Quantity: 2, Files: []PodOrderFile{{URL: "https://cdn.example.com/a.jpg"}}},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if result.OrderID != "42" || result.Status != "draft" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestCreatePodOrderProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"out of stock"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewPrintfulClient(&config.Printful{BaseApiURL: srv.URL, APIKey: "pf_test_key"})
	_, err := c.CreateOrder(context.Background(), &PodOrderRequest{ExternalID: "order-2"})
	if !errors.Is(err, apperr.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
}
