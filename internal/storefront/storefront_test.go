package storefront

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"AspectoStore/internal/cart"
	"AspectoStore/internal/catalog"
	"AspectoStore/internal/checkout"
	"AspectoStore/internal/event"
	"AspectoStore/internal/notify"
	"AspectoStore/internal/session"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	h := NewHandler(Deps{
		Log:        zap.NewNop(),
		Catalog:    catalog.NewMemStore(),
		Carts:      cart.NewMemStore(),
		Orders:     checkout.NewMemStore(),
		Mailer:     checkout.NopMailer{},
		Events:     event.NoopProducer{},
		Notify:     notify.NewCenterTTL(time.Minute),
		JWT:        session.NewTokenMaker("test-secret"),
		SessionTTL: time.Hour,
		PIX: checkout.PIXConfig{
			Key:          "pix@supaspecto.com.br",
			MerchantName: "SUP ASPECTO",
			City:         "SAO PAULO",
			Image:        "assets/images/pix_qr.png",
		},
		ChatPhone:    "5511999999999",
		OrderEmailTo: "pedidos@supaspecto.com.br",
	})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do %s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("decode %s %s: %v body=%s", method, url, err, string(raw))
		}
	}
	return resp
}

func issueSession(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	var got struct {
		SessionID string `json:"session_id"`
		Token     string `json:"token"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/session", "", nil, &got)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("issue session status=%d", resp.StatusCode)
	}
	if got.Token == "" {
		t.Fatal("empty session token")
	}
	return got.Token
}

func addItem(t *testing.T, ts *httptest.Server, token string, productID int64, size string) cart.View {
	t.Helper()

	var v cart.View
	resp := doJSON(t, http.MethodPost, ts.URL+"/cart/items", token,
		map[string]any{"product_id": productID, "size": size}, &v)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add item status=%d", resp.StatusCode)
	}
	return v
}

func TestStorefront_RequiresSession(t *testing.T) {
	ts := newTestServer(t)

	for _, ep := range []struct{ method, path string }{
		{http.MethodGet, "/cart"},
		{http.MethodPost, "/cart/items"},
		{http.MethodPost, "/checkout"},
		{http.MethodGet, "/toast"},
	} {
		req, err := http.NewRequest(ep.method, ts.URL+ep.path, nil)
		if err != nil {
			t.Fatalf("new request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("do: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s status=%d, want 401", ep.method, ep.path, resp.StatusCode)
		}
	}

	// health and catalog stay open
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("healthz status=%d", resp.StatusCode)
	}
	resp, err = http.Get(ts.URL + "/products")
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("products status=%d", resp.StatusCode)
	}
}

func TestStorefront_Readyz(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("readyz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readyz status=%d", resp.StatusCode)
	}
}

func TestStorefront_BrowseToCheckout(t *testing.T) {
	ts := newTestServer(t)
	token := issueSession(t, ts)

	// fresh session, empty bag
	var v cart.View
	resp := doJSON(t, http.MethodGet, ts.URL+"/cart", token, nil, &v)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("view status=%d", resp.StatusCode)
	}
	if !v.Empty || v.Placeholder != "Seu carrinho está vazio" {
		t.Fatalf("fresh cart view=%+v", v)
	}

	// two of the 2025 shirt in M, one of the 2024 shirt in G
	addItem(t, ts, token, 1, "M")
	addItem(t, ts, token, 1, "M")
	v = addItem(t, ts, token, 2, "G")

	if v.ItemCount != 3 {
		t.Fatalf("badge=%d, want 3", v.ItemCount)
	}
	if v.Total != "R$ 370.00" {
		t.Fatalf("total=%q", v.Total)
	}
	if len(v.Rows) != 2 {
		t.Fatalf("rows=%d, want 2", len(v.Rows))
	}
	if v.Rows[0].Key != "1-M" || v.Rows[0].Qty != 2 || v.Rows[1].Key != "2-G" {
		t.Fatalf("rows=%+v", v.Rows)
	}

	// one more of the first shirt merges into the existing line
	v = addItem(t, ts, token, 1, "M")
	if v.Total != "R$ 490.00" || v.Rows[0].Qty != 3 {
		t.Fatalf("after merge total=%q qty=%d", v.Total, v.Rows[0].Qty)
	}

	// decrement follows the row's own affordance
	resp = doJSON(t, http.MethodPost, ts.URL+v.Rows[0].DecrementHref, token, nil, &v)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decrement status=%d", resp.StatusCode)
	}
	if v.Rows[0].Qty != 2 || v.Total != "R$ 370.00" {
		t.Fatalf("after decrement=%+v", v.Rows[0])
	}

	// removing the second line takes a confirmation round trip
	var prompt struct {
		PromptID string `json:"prompt_id"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+v.Rows[1].RemoveHref, token, nil, &prompt)
	if resp.StatusCode != http.StatusAccepted || prompt.PromptID == "" {
		t.Fatalf("open removal status=%d prompt=%+v", resp.StatusCode, prompt)
	}

	// the cart is untouched while the prompt is open
	doJSON(t, http.MethodGet, ts.URL+"/cart", token, nil, &v)
	if len(v.Rows) != 2 {
		t.Fatalf("rows=%d while prompt open, want 2", len(v.Rows))
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/cart/removals/"+prompt.PromptID+"/confirm", token, nil, &v)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("confirm removal status=%d", resp.StatusCode)
	}
	if len(v.Rows) != 1 || v.Rows[0].Key != "1-M" {
		t.Fatalf("after removal rows=%+v", v.Rows)
	}

	// a spent prompt is gone
	resp = doJSON(t, http.MethodPost, ts.URL+"/cart/removals/"+prompt.PromptID+"/confirm", token, nil, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("spent prompt status=%d", resp.StatusCode)
	}

	// checkout with cash completes in one step
	var done struct {
		State    string     `json:"state"`
		ChatLink string     `json:"chat_link"`
		Cart     *cart.View `json:"cart"`
		Order    *struct {
			ID         string `json:"id"`
			TotalCents int64  `json:"total_cents"`
		} `json:"order"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/checkout", token,
		map[string]any{"customer_name": "Maria", "payment_method": "cash"}, &done)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("checkout status=%d", resp.StatusCode)
	}
	if done.State != "completed" || done.ChatLink == "" {
		t.Fatalf("checkout resp=%+v", done)
	}
	if done.Order == nil || done.Order.TotalCents != 24000 {
		t.Fatalf("order=%+v", done.Order)
	}
	if done.Cart == nil || !done.Cart.Empty {
		t.Fatalf("cart after checkout=%+v", done.Cart)
	}

	// the success toast is up
	var toast struct {
		Message  string `json:"message"`
		Severity string `json:"severity"`
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/toast", token, nil, &toast)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("toast status=%d", resp.StatusCode)
	}
	if toast.Message != "Pedido enviado com sucesso" || toast.Severity != "success" {
		t.Fatalf("toast=%+v", toast)
	}

	// dismissing it leaves the slot empty
	resp = doJSON(t, http.MethodDelete, ts.URL+"/toast", token, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("dismiss status=%d", resp.StatusCode)
	}
	resp = doJSON(t, http.MethodGet, ts.URL+"/toast", token, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("toast after dismiss status=%d", resp.StatusCode)
	}

	// the order is readable by its owner
	resp = doJSON(t, http.MethodGet, ts.URL+"/orders/"+done.Order.ID, token, nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get order status=%d", resp.StatusCode)
	}
}

func TestStorefront_SessionsDoNotShareCarts(t *testing.T) {
	ts := newTestServer(t)

	tokenA := issueSession(t, ts)
	tokenB := issueSession(t, ts)

	addItem(t, ts, tokenA, 1, "P")

	var v cart.View
	doJSON(t, http.MethodGet, ts.URL+"/cart", tokenB, nil, &v)
	if !v.Empty {
		t.Fatalf("second session sees the first session's cart: %+v", v)
	}
}
