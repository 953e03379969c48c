package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"eve-hauler/internal/engine"
)

// metricLabels maps alert metric keys to display names.
var metricLabels = map[string]string{
	"profit":     "Profit",
	"roi":        "ROI",
	"quantity":   "Quantity",
	"risk_score": "Risk Score",
}

// FormatAlert builds the notification text for a triggered watchlist alert.
func FormatAlert(typeName, metric string, threshold, current float64, rec engine.Record) string {
	label, ok := metricLabels[metric]
	if !ok {
		label = metric
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 %s\n", typeName)
	fmt.Fprintf(&b, "%s %s crossed %s\n", label, formatMetric(metric, current), formatMetric(metric, threshold))
	fmt.Fprintf(&b, "Buy %s → Sell %s\n", isk(rec.BuyPrice), isk(rec.SellPrice))
	fmt.Fprintf(&b, "%s × %s units = %s profit (ROI %.1f%%)\n",
		rec.From, humanize.Comma(int64(rec.Quantity)), isk(float64(rec.Profit)), rec.ROI)
	if rec.RiskLevel != "" {
		fmt.Fprintf(&b, "Risk: %s (%.0f/100)", rec.RiskLevel, rec.RiskScore)
	}
	return b.String()
}

// FormatScanSummary builds a one-line digest for a completed scheduled scan.
func FormatScanSummary(origin, destination string, results []engine.Record) string {
	if len(results) == 0 {
		return fmt.Sprintf("Scan %s → %s: no opportunities", origin, destination)
	}
	top := results[0]
	return fmt.Sprintf("Scan %s → %s: %s opportunities, best %s on %s",
		origin, destination,
		humanize.Comma(int64(len(results))),
		isk(float64(top.Profit)),
		top.Item)
}

func formatMetric(metric string, v float64) string {
	switch metric {
	case "profit":
		return isk(v)
	case "roi":
		return fmt.Sprintf("%.1f%%", v)
	case "quantity":
		return humanize.Comma(int64(v))
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

// isk renders an ISK amount compactly: "1.25B ISK", "430.5M ISK", "12,500 ISK".
func isk(v float64) string {
	switch {
	case v >= 1e9:
		return fmt.Sprintf("%.2fB ISK", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("%.1fM ISK", v/1e6)
	default:
		return humanize.Commaf(v) + " ISK"
	}
}
