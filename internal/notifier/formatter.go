package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"BistSentinel/internal/model"
	"BistSentinel/internal/scanner"
)

func levelString(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}

// FormatScanReport renders the top results of a scan as a Telegram message.
func FormatScanReport(report model.ScanReport, top int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>BIST Scan</b> | %s | %s\n", report.FinishedAt.Format("2006-01-02 15:04"), report.Timeframe))
	if report.Status != model.ScanOK {
		b.WriteString(html.EscapeString(report.Message))
		return b.String()
	}

	sum := scanner.Summarize(report.Results)
	b.WriteString(fmt.Sprintf("Scanned %d · skipped %d · matched %d\n", report.Scanned, report.Skipped, len(report.Results)))
	b.WriteString(fmt.Sprintf("🟢 Buy %d (strong %d) · 🔴 Sell %d · 👀 Watch %d\n", sum.Buy, sum.StrongBuy, sum.Sell, sum.Watch))
	if sum.StrongBuy > 0 {
		b.WriteString(fmt.Sprintf("\n🚨 <b>STRONG BUY ALARM:</b> %d ticker(s)\n", sum.StrongBuy))
	}

	b.WriteString("\n<pre>")
	b.WriteString(fmt.Sprintf("%-6s %8s %5s %4s %-12s %8s %8s %8s\n", "Ticker", "Price", "RSI", "Scr", "Decision", "Stop", "T1", "T2"))
	for _, r := range scanner.Top(report.Results, top) {
		b.WriteString(fmt.Sprintf("%-6s %8.2f %5.1f %+4d %-12s %8s %8s %8s\n",
			r.Ticker, r.Price, r.RSI, r.Score, r.Decision,
			levelString(r.Risk.StopLoss), levelString(r.Risk.Target1), levelString(r.Risk.Target2)))
	}
	b.WriteString("</pre>\n")

	for _, r := range scanner.Top(report.Results, top) {
		tags := r.SignalTags()
		if r.Held {
			tags = append(tags, "Held")
		}
		b.WriteString(fmt.Sprintf("<b>%s</b> %s\n  %s\n", r.Ticker,
			html.EscapeString(strings.Join(tags, " | ")), html.EscapeString(r.Commentary)))
	}
	return b.String()
}

// FormatAlert renders one alert event.
func FormatAlert(ev model.AlertEvent) string {
	return fmt.Sprintf("🔔 <b>%s</b> %s\n%s", ev.Ticker, ev.Kind, html.EscapeString(ev.Message))
}

// FormatAlertLog renders the recent alert log, most recent first.
func FormatAlertLog(events []model.AlertEvent) string {
	if len(events) == 0 {
		return "🔕 No alerts yet."
	}
	var b strings.Builder
	b.WriteString("🔔 <b>Recent alerts</b>\n\n")
	for _, ev := range events {
		b.WriteString(fmt.Sprintf("%s  %s\n", ev.FiredAt.Format("15:04:05"), html.EscapeString(ev.Message)))
	}
	return b.String()
}

// FormatMarket renders the sidebar market readouts.
func FormatMarket(s model.MarketSummary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🌍 <b>Market</b> | %s", s.FetchedAt.Format("15:04")))
	if s.Stale {
		b.WriteString(" (stale)")
	}
	b.WriteString("\n\n")
	for _, q := range s.Quotes {
		icon := "▲"
		if q.ChangePercent < 0 {
			icon = "▼"
		}
		b.WriteString(fmt.Sprintf("%-12s %12.2f  %s %.2f%%\n", q.Label, q.Value, icon, abs(q.ChangePercent)))
	}
	return b.String()
}

// FormatPortfolio renders a portfolio valuation.
func FormatPortfolio(v model.PortfolioValuation) string {
	if len(v.Positions) == 0 {
		return "💼 Portfolio is empty."
	}
	var b strings.Builder
	b.WriteString("💼 <b>Portfolio</b>\n\n")
	for _, p := range v.Positions {
		b.WriteString(fmt.Sprintf("<b>%s</b> %d × %s ₺ (avg %s)\n  P/L: %s ₺ (%+.2f%%)\n",
			p.Ticker, p.Quantity, p.Price.StringFixed(2), p.AverageCost.StringFixed(2),
			p.PnL.StringFixed(2), p.PnLPercent))
	}
	b.WriteString(fmt.Sprintf("\nTotal: %s ₺ | P/L %s ₺ (%+.2f%%)\n",
		v.TotalValue.StringFixed(2), v.PnL.StringFixed(2), v.PnLPercent))
	return b.String()
}

// FormatHelp lists the bot commands.
func FormatHelp() string {
	return strings.Join([]string{
		"🤖 <b>BistSentinel</b>",
		"/scan - run a scan now",
		"/top - best results of the last scan",
		"/alerts - recent crossover alerts",
		"/market - BIST 100, currencies and gram metals",
		"/portfolio - holdings marked to market",
		"/help - this message",
		"",
		fmt.Sprintf("Server time: %s", time.Now().Format("2006-01-02 15:04")),
	}, "\n")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
