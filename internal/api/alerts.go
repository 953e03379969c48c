package api

import (
	"log"
	"time"

	"eve-hauler/internal/db"
	"eve-hauler/internal/engine"
	"eve-hauler/internal/notifier"
)

// DefaultAlertCooldown is the minimum time between repeat alerts for the
// same item/metric/threshold.
const DefaultAlertCooldown = time.Hour

// AlertCheckResult describes one alert that should fire, with the metadata
// needed to deliver and record it.
type AlertCheckResult struct {
	TypeID       int32
	TypeName     string
	Metric       string
	Threshold    float64
	CurrentValue float64
	Message      string
	Record       engine.Record
}

// metricValue extracts the configured metric from an output record.
func metricValue(metric string, r engine.Record) (float64, bool) {
	switch metric {
	case "profit":
		return float64(r.Profit), true
	case "roi":
		return r.ROI, true
	case "quantity":
		return float64(r.Quantity), true
	case "risk_score":
		return r.RiskScore, true
	default:
		return 0, false
	}
}

// CheckWatchlistAlerts evaluates watchlist items against scan results and
// returns the alerts that should be sent, respecting the cooldown.
func (s *Server) CheckWatchlistAlerts(results []engine.Record) []AlertCheckResult {
	if s.db == nil {
		return nil
	}

	byType := make(map[int32]engine.Record, len(results))
	for _, r := range results {
		// First occurrence wins: results are sorted best-first.
		if _, ok := byType[r.ItemID]; !ok {
			byType[r.ItemID] = r
		}
	}

	var alerts []AlertCheckResult
	for _, item := range s.db.GetWatchlist() {
		if !item.AlertEnabled || item.AlertThreshold <= 0 {
			continue
		}

		rec, ok := byType[item.TypeID]
		if !ok {
			continue // item not present in this scan
		}

		current, ok := metricValue(item.AlertMetric, rec)
		if !ok {
			log.Printf("[ALERT] unknown metric %q for type %d", item.AlertMetric, item.TypeID)
			continue
		}
		if current < item.AlertThreshold {
			continue
		}

		lastAlert, err := s.db.GetLastAlertTime(item.TypeID, item.AlertMetric, item.AlertThreshold)
		if err != nil {
			log.Printf("[ALERT] last alert lookup for type %d: %v", item.TypeID, err)
			continue
		}
		if !lastAlert.IsZero() && time.Since(lastAlert) < DefaultAlertCooldown {
			continue
		}

		typeName := item.TypeName
		if typeName == "" {
			typeName = rec.Item
		}

		alerts = append(alerts, AlertCheckResult{
			TypeID:       item.TypeID,
			TypeName:     typeName,
			Metric:       item.AlertMetric,
			Threshold:    item.AlertThreshold,
			CurrentValue: current,
			Message:      notifier.FormatAlert(typeName, item.AlertMetric, item.AlertThreshold, current, rec),
			Record:       rec,
		})
	}
	return alerts
}

// checkAlerts evaluates and delivers alerts for a completed scan.
func (s *Server) checkAlerts(results []engine.Record, scanID int64) {
	alerts := s.CheckWatchlistAlerts(results)
	if len(alerts) == 0 {
		return
	}

	channels := s.alertChannels()
	for _, a := range alerts {
		sent := notifier.Fanout(channels, a.Message)
		if err := s.db.SaveAlertHistory(db.AlertHistoryEntry{
			TypeID:       a.TypeID,
			TypeName:     a.TypeName,
			Metric:       a.Metric,
			Threshold:    a.Threshold,
			CurrentValue: a.CurrentValue,
			Message:      a.Message,
			ChannelsSent: sent,
			ScanID:       scanID,
		}); err != nil {
			log.Printf("[ALERT] save history for type %d: %v", a.TypeID, err)
		}
	}
}

// alertChannels builds the notifier list from the current config.
func (s *Server) alertChannels() []notifier.Notifier {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()

	var channels []notifier.Notifier
	if cfg.AlertTelegram && cfg.AlertTelegramToken != "" && cfg.AlertTelegramChatID != "" {
		channels = append(channels, notifier.NewTelegramNotifier(cfg.AlertTelegramToken, cfg.AlertTelegramChatID))
	}
	if cfg.AlertDiscord && cfg.AlertDiscordWebhook != "" {
		channels = append(channels, notifier.NewDiscordNotifier(cfg.AlertDiscordWebhook))
	}
	return channels
}

// RunWatchlistScan executes the configured default haul query and fires
// alerts from the result. Invoked by the background scheduler.
func (s *Server) RunWatchlistScan() {
	s.mu.RLock()
	cfg := *s.cfg
	s.mu.RUnlock()

	if cfg.FromRegionID == 0 || cfg.ToRegionID == 0 {
		return
	}

	params := engine.HaulParams{
		From: engine.Location{RegionID: cfg.FromRegionID, Preference: cfg.FromPreference},
		To:   engine.Location{RegionID: cfg.ToRegionID, Preference: cfg.ToPreference},
		Constraints: engine.Constraints{
			MinProfit:     cfg.MinProfit,
			MinROI:        cfg.MinROI,
			MaxBudget:     cfg.MaxBudget,
			MaxCargo:      cfg.CargoCapacity,
			SalesTaxRate:  cfg.SalesTaxPercent / 100,
			BrokerFeeRate: cfg.BrokerFeePercent / 100,
		},
		MaxResults: cfg.MaxResults,
	}

	results, err := s.hauler.Haul(params)
	if err != nil {
		log.Printf("[SCHED] watchlist scan failed: %v", err)
		return
	}
	scanID := s.recordScan("watchlist", params.From, params.To, results)
	s.checkAlerts(results, scanID)
	log.Printf("[SCHED] watchlist scan: %d results", len(results))
}
