package notifier

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eve-hauler/internal/engine"
)

func sampleRecord() engine.Record {
	return engine.Record{
		ItemID: 34, Item: "Tritanium",
		From: "Jita IV - Moon 4 - Caldari Navy Assembly Plant", TakeTo: "Amarr",
		Quantity: 10000, BuyPrice: 5.5, SellPrice: 6.35,
		Profit: 3420, ROI: 6.2,
		RiskScore: 12, RiskLevel: "low",
	}
}

func TestFormatAlert(t *testing.T) {
	msg := FormatAlert("Tritanium", "profit", 1e6, 1.5e6, sampleRecord())

	for _, want := range []string{
		"Tritanium",
		"Profit 1.5M ISK crossed 1.0M ISK",
		"Buy 5.5 ISK → Sell 6.35 ISK",
		"10,000 units",
		"Risk: low (12/100)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("alert missing %q:\n%s", want, msg)
		}
	}
}

func TestFormatAlert_MetricFormats(t *testing.T) {
	rec := sampleRecord()

	roi := FormatAlert("Tritanium", "roi", 5, 6.2, rec)
	if !strings.Contains(roi, "ROI 6.2% crossed 5.0%") {
		t.Errorf("roi alert:\n%s", roi)
	}

	qty := FormatAlert("Tritanium", "quantity", 5000, 10000, rec)
	if !strings.Contains(qty, "Quantity 10,000 crossed 5,000") {
		t.Errorf("quantity alert:\n%s", qty)
	}

	risk := FormatAlert("Tritanium", "risk_score", 50, 74, rec)
	if !strings.Contains(risk, "Risk Score 74 crossed 50") {
		t.Errorf("risk alert:\n%s", risk)
	}

	// Unknown metrics fall back to the raw key.
	other := FormatAlert("Tritanium", "volatility", 1, 2, rec)
	if !strings.Contains(other, "volatility") {
		t.Errorf("unknown metric alert:\n%s", other)
	}
}

func TestFormatScanSummary(t *testing.T) {
	empty := FormatScanSummary("Jita", "Amarr", nil)
	if empty != "Scan Jita → Amarr: no opportunities" {
		t.Errorf("empty summary = %q", empty)
	}

	got := FormatScanSummary("Jita", "Amarr", []engine.Record{sampleRecord()})
	for _, want := range []string{"Jita → Amarr", "1 opportunities", "3,420 ISK", "Tritanium"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %s", want, got)
		}
	}
}

func TestISK(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1.25e9, "1.25B ISK"},
		{430.5e6, "430.5M ISK"},
		{12500, "12,500 ISK"},
		{5.5, "5.5 ISK"},
	}
	for _, tc := range cases {
		if got := isk(tc.in); got != tc.want {
			t.Errorf("isk(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTelegramNotifier_Send(t *testing.T) {
	var gotPath string
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	n := NewTelegramNotifier("123:abc", "-100555")
	n.apiBase = srv.URL

	if err := n.Send("hello"); err != nil {
		t.Fatal(err)
	}
	if gotPath != "/bot123:abc/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotPayload["chat_id"] != "-100555" || gotPayload["text"] != "hello" {
		t.Errorf("payload = %v", gotPayload)
	}
	if gotPayload["parse_mode"] != "HTML" {
		t.Errorf("parse_mode = %q", gotPayload["parse_mode"])
	}
	if n.Name() != "telegram" {
		t.Errorf("Name = %q", n.Name())
	}
}

func TestTelegramNotifier_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false,"description":"chat not found"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	n := NewTelegramNotifier("123:abc", "bad")
	n.apiBase = srv.URL

	err := n.Send("hello")
	if err == nil || !strings.Contains(err.Error(), "chat not found") {
		t.Errorf("err = %v", err)
	}
}

func TestDiscordNotifier_Send(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &gotPayload)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewDiscordNotifier(srv.URL)
	if err := n.Send("hello"); err != nil {
		t.Fatal(err)
	}
	if gotPayload["content"] != "hello" {
		t.Errorf("payload = %v", gotPayload)
	}
	if n.Name() != "discord" {
		t.Errorf("Name = %q", n.Name())
	}
}

func TestDiscordNotifier_WebhookError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if err := NewDiscordNotifier(srv.URL).Send("hello"); err == nil {
		t.Error("webhook error not propagated")
	}
}

// stubNotifier is a canned-outcome channel for Fanout tests.
type stubNotifier struct {
	name string
	err  error
}

func (s *stubNotifier) Name() string           { return s.name }
func (s *stubNotifier) Send(text string) error { return s.err }

func TestFanout_CollectsSuccessesOnly(t *testing.T) {
	channels := []Notifier{
		&stubNotifier{name: "telegram"},
		&stubNotifier{name: "discord", err: errors.New("dead webhook")},
		&stubNotifier{name: "other"},
	}
	sent := Fanout(channels, "msg")
	if len(sent) != 2 || sent[0] != "telegram" || sent[1] != "other" {
		t.Errorf("sent = %v", sent)
	}

	if got := Fanout(nil, "msg"); len(got) != 0 {
		t.Errorf("empty fanout sent %v", got)
	}
}
