package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestClient_CreateIntent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != ordersPath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key_id" || pass != "key_secret" {
			t.Errorf("missing or wrong basic auth")
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Amount != 400000 || req.Currency != "INR" {
			t.Errorf("unexpected request: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(createOrderResponse{
			ID:       "order_abc123",
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
			Status:   "created",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, KeyID: "key_id", KeySecret: "key_secret"}, zerolog.Nop())

	intent, err := client.CreateIntent(context.Background(), 400000, "INR", "rcpt_1")
	if err != nil {
		t.Fatalf("CreateIntent failed: %v", err)
	}
	if intent.ID != "order_abc123" {
		t.Fatalf("unexpected intent id %s", intent.ID)
	}
	if intent.Amount != 400000 {
		t.Fatalf("unexpected amount %d", intent.Amount)
	}
}

func TestClient_CreateIntent_GatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"BAD_REQUEST"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, KeyID: "k", KeySecret: "s"}, zerolog.Nop())

	if _, err := client.CreateIntent(context.Background(), 100, "INR", "rcpt_1"); err == nil {
		t.Fatalf("expected error on gateway rejection")
	}
}

func TestClient_VerifySignature(t *testing.T) {
	client := NewClient(Config{KeyID: "k", KeySecret: "key_secret"}, zerolog.Nop())

	mac := hmac.New(sha256.New, []byte("key_secret"))
	mac.Write([]byte("order_abc123|pay_xyz789"))
	good := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifySignature("order_abc123", "pay_xyz789", good) {
		t.Fatalf("expected valid signature to verify")
	}
	if client.VerifySignature("order_abc123", "pay_xyz789", good[:len(good)-2]+"ff") {
		t.Fatalf("expected tampered signature to fail")
	}
	if client.VerifySignature("order_other", "pay_xyz789", good) {
		t.Fatalf("expected signature over different payload to fail")
	}
}
