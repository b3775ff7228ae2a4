package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOrderSession(t *testing.T) {
	var gotPath, gotMerchant string
	var gotPayload SessionPayload

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMerchant = r.Header.Get("x-merchantid")
		if user, _, ok := r.BasicAuth(); !ok || user != "api-key" {
			t.Errorf("missing basic auth api key")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotPayload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"s1","order_id":"order_1","status":"NEW","payment_links":{"web":"https://pay.example/s1"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "merchant-1", "resp-key")
	resp, err := c.OrderSession(context.Background(), SessionPayload{
		OrderID:  "order_1",
		Amount:   900,
		Currency: "INR",
	})
	if err != nil {
		t.Fatalf("OrderSession error: %v", err)
	}
	if gotPath != "/session" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotMerchant != "merchant-1" {
		t.Fatalf("unexpected merchant header %q", gotMerchant)
	}
	if gotPayload.Amount != 900 || gotPayload.Currency != "INR" {
		t.Fatalf("unexpected payload %+v", gotPayload)
	}
	if resp.PaymentLinks.Web != "https://pay.example/s1" {
		t.Fatalf("unexpected payment link %q", resp.PaymentLinks.Web)
	}
}

func TestOrderStatus(t *testing.T) {
	body := `{"order_id":"order_2","status":"CHARGED","amount":900,"currency":"INR","txn_id":"tx9"}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/order_2" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %q", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "merchant-1", "resp-key")
	resp, err := c.OrderStatus(context.Background(), "order_2")
	if err != nil {
		t.Fatalf("OrderStatus error: %v", err)
	}
	if resp.Status != "CHARGED" || resp.Amount != 900 {
		t.Fatalf("unexpected response %+v", resp)
	}
	// raw body retained verbatim, including fields the struct drops
	if string(resp.Raw) != body {
		t.Fatalf("raw body mismatch: %s", resp.Raw)
	}
}

func TestRefund(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/order_3/refunds" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var p RefundPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if p.UniqueRequestID != "refund_r1" {
			t.Errorf("unexpected unique_request_id %q", p.UniqueRequestID)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"order_id":"order_3","status":"PENDING"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "merchant-1", "resp-key")
	resp, err := c.Refund(context.Background(), RefundPayload{
		OrderID:         "order_3",
		Amount:          450,
		UniqueRequestID: "refund_r1",
	})
	if err != nil {
		t.Fatalf("Refund error: %v", err)
	}
	if resp.Status != "PENDING" {
		t.Fatalf("unexpected refund status %q", resp.Status)
	}
}

func TestAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid order"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "api-key", "merchant-1", "resp-key")
	_, err := c.OrderStatus(context.Background(), "order_x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected status code %d", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Body, "invalid order") {
		t.Fatalf("unexpected body %q", apiErr.Body)
	}
}

func TestGenerateOrderID(t *testing.T) {
	a := GenerateOrderID()
	b := GenerateOrderID()
	if !strings.HasPrefix(a, "order_") {
		t.Fatalf("unexpected prefix: %q", a)
	}
	if a == b {
		t.Fatalf("order ids must be unique: %q", a)
	}
	if !strings.HasPrefix(GenerateRefundRequestID(), "refund_") {
		t.Fatalf("unexpected refund id prefix")
	}
}
