package api

import (
	"strings"
	"testing"
	"time"

	"eve-hauler/internal/config"
	"eve-hauler/internal/db"
	"eve-hauler/internal/engine"
)

func watch(typeID int32, metric string, threshold float64) config.WatchlistItem {
	return config.WatchlistItem{
		TypeID:         typeID,
		TypeName:       "Tritanium",
		AlertEnabled:   true,
		AlertMetric:    metric,
		AlertThreshold: threshold,
	}
}

func scanResults() []engine.Record {
	return []engine.Record{
		{ItemID: 34, Item: "Tritanium", Quantity: 10000, Profit: 3420, ROI: 6.2, RiskScore: 12},
		{ItemID: 34, Item: "Tritanium", Quantity: 50, Profit: 99999, ROI: 50}, // worse rank, ignored
		{ItemID: 35, Item: "Pyerite", Quantity: 300, Profit: 1920, ROI: 53.3},
	}
}

func TestMetricValue(t *testing.T) {
	r := scanResults()[0]
	cases := []struct {
		metric string
		want   float64
		ok     bool
	}{
		{"profit", 3420, true},
		{"roi", 6.2, true},
		{"quantity", 10000, true},
		{"risk_score", 12, true},
		{"volatility", 0, false},
	}
	for _, tc := range cases {
		got, ok := metricValue(tc.metric, r)
		if got != tc.want || ok != tc.ok {
			t.Errorf("metricValue(%q) = %v, %v; want %v, %v", tc.metric, got, ok, tc.want, tc.ok)
		}
	}
}

func TestCheckWatchlistAlerts_ThresholdCrossing(t *testing.T) {
	s := newTestServer(t)
	if err := s.db.AddWatchlistItem(watch(34, "profit", 3000)); err != nil {
		t.Fatal(err)
	}

	alerts := s.CheckWatchlistAlerts(scanResults())
	if len(alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts))
	}
	a := alerts[0]
	if a.TypeID != 34 || a.Metric != "profit" || a.CurrentValue != 3420 {
		t.Errorf("alert = %+v", a)
	}
	// First occurrence in the ranked results wins, not the higher-profit
	// duplicate further down.
	if a.Record.Quantity != 10000 {
		t.Errorf("alert used record %+v, want the top-ranked one", a.Record)
	}
	if !strings.Contains(a.Message, "Tritanium") {
		t.Errorf("message = %q", a.Message)
	}
}

func TestCheckWatchlistAlerts_BelowThreshold(t *testing.T) {
	s := newTestServer(t)
	s.db.AddWatchlistItem(watch(34, "profit", 5000))

	if alerts := s.CheckWatchlistAlerts(scanResults()); len(alerts) != 0 {
		t.Errorf("got %d alerts below threshold", len(alerts))
	}
}

func TestCheckWatchlistAlerts_DisabledAndZeroThresholdSkipped(t *testing.T) {
	s := newTestServer(t)

	disabled := watch(34, "profit", 3000)
	disabled.AlertEnabled = false
	s.db.AddWatchlistItem(disabled)

	zero := watch(35, "profit", 0)
	s.db.AddWatchlistItem(zero)

	if alerts := s.CheckWatchlistAlerts(scanResults()); len(alerts) != 0 {
		t.Errorf("got %d alerts from disabled/zero-threshold items", len(alerts))
	}
}

func TestCheckWatchlistAlerts_ItemNotInScan(t *testing.T) {
	s := newTestServer(t)
	s.db.AddWatchlistItem(watch(9999, "profit", 1))

	if alerts := s.CheckWatchlistAlerts(scanResults()); len(alerts) != 0 {
		t.Errorf("got %d alerts for an absent item", len(alerts))
	}
}

func TestCheckWatchlistAlerts_UnknownMetricSkipped(t *testing.T) {
	s := newTestServer(t)
	s.db.AddWatchlistItem(watch(34, "volatility", 1))

	if alerts := s.CheckWatchlistAlerts(scanResults()); len(alerts) != 0 {
		t.Errorf("got %d alerts for an unknown metric", len(alerts))
	}
}

func TestCheckWatchlistAlerts_Cooldown(t *testing.T) {
	s := newTestServer(t)
	s.db.AddWatchlistItem(watch(34, "profit", 3000))

	// A recent alert for the same item/metric/threshold suppresses a repeat.
	if err := s.db.SaveAlertHistory(db.AlertHistoryEntry{
		TypeID: 34, TypeName: "Tritanium", Metric: "profit",
		Threshold: 3000, CurrentValue: 3400, Message: "m",
		SentAt: time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		t.Fatal(err)
	}
	if alerts := s.CheckWatchlistAlerts(scanResults()); len(alerts) != 0 {
		t.Fatalf("cooldown not honored: %d alerts", len(alerts))
	}

	// An alert older than the cooldown no longer suppresses.
	s.db.AddWatchlistItem(watch(35, "roi", 50))
	if err := s.db.SaveAlertHistory(db.AlertHistoryEntry{
		TypeID: 35, TypeName: "Pyerite", Metric: "roi",
		Threshold: 50, CurrentValue: 53, Message: "m",
		SentAt: time.Now().Add(-2 * DefaultAlertCooldown).UTC().Format(time.RFC3339),
	}); err != nil {
		t.Fatal(err)
	}
	alerts := s.CheckWatchlistAlerts(scanResults())
	if len(alerts) != 1 || alerts[0].TypeID != 35 {
		t.Fatalf("expired cooldown: alerts = %+v", alerts)
	}
}

func TestAlertChannels_FromConfig(t *testing.T) {
	s := newTestServer(t)

	if got := s.alertChannels(); len(got) != 0 {
		t.Errorf("unconfigured channels = %d", len(got))
	}

	s.cfg.AlertTelegram = true
	s.cfg.AlertTelegramToken = "tok"
	s.cfg.AlertTelegramChatID = "chat"
	s.cfg.AlertDiscord = true
	s.cfg.AlertDiscordWebhook = "https://discord.example/webhook"

	got := s.alertChannels()
	if len(got) != 2 {
		t.Fatalf("got %d channels, want 2", len(got))
	}
	names := map[string]bool{}
	for _, n := range got {
		names[n.Name()] = true
	}
	if !names["telegram"] || !names["discord"] {
		t.Errorf("channels = %v", names)
	}

	// A channel toggled on without its credentials stays off.
	s.cfg.AlertTelegramToken = ""
	if got := s.alertChannels(); len(got) != 1 {
		t.Errorf("tokenless telegram still built: %d channels", len(got))
	}
}
