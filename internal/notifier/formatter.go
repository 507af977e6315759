package notifier

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"SMACrossover/internal/model"
)

// FormatComparisonSubject builds the single-ticker report subject.
func FormatComparisonSubject(res *model.ComparisonResult) string {
	return fmt.Sprintf("%s Analysis: %s 200-Day SMA - %s", res.Symbol, res.Comparison, res.Date)
}

// FormatComparisonText builds the plain-text single-ticker report.
func FormatComparisonText(res *model.ComparisonResult, a *model.Analysis, recommendation string) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s Analysis Report | %s\n\n", res.Symbol, res.Date))
	b.WriteString(fmt.Sprintf("Closing price: $%.2f\n", res.ClosingPrice))
	b.WriteString(fmt.Sprintf("200-day SMA:   $%.2f\n", res.SMAValue))
	b.WriteString(fmt.Sprintf("Difference:    %+.2f%% (%s)\n\n", res.PercentageDifference, a.SignalStrength))
	b.WriteString(res.Message + "\n")
	b.WriteString(res.DetailedMessage + "\n\n")
	b.WriteString(fmt.Sprintf("Trend signal: %s\n", res.TrendSignal))
	b.WriteString(fmt.Sprintf("Recommendation: %s\n", recommendation))
	return b.String()
}

// FormatComparisonHTML builds the HTML single-ticker report.
func FormatComparisonHTML(res *model.ComparisonResult, a *model.Analysis, recommendation string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<h2>%s Analysis Report &mdash; %s</h2>\n", res.Symbol, res.Date))
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">\n")
	b.WriteString(fmt.Sprintf("<tr><td>Closing price</td><td>$%.2f</td></tr>\n", res.ClosingPrice))
	b.WriteString(fmt.Sprintf("<tr><td>200-day SMA</td><td>$%.2f</td></tr>\n", res.SMAValue))
	b.WriteString(fmt.Sprintf("<tr><td>Difference</td><td>%+.2f%% (%s)</td></tr>\n", res.PercentageDifference, a.SignalStrength))
	b.WriteString(fmt.Sprintf("<tr><td>Trend signal</td><td>%s</td></tr>\n", res.TrendSignal))
	b.WriteString("</table>\n")
	b.WriteString(fmt.Sprintf("<p>%s</p>\n", res.DetailedMessage))
	b.WriteString(fmt.Sprintf("<p><b>%s</b></p>\n", recommendation))
	b.WriteString("</body></html>\n")
	return b.String()
}

// FormatAssessmentSubject builds the multi-ticker report subject.
func FormatAssessmentSubject(as *model.MultiTickerAssessment) string {
	return fmt.Sprintf("Multi-Ticker Assessment: %s - %s", as.Recommendation, as.Date)
}

func sortedSymbols(as *model.MultiTickerAssessment) []string {
	symbols := make([]string, 0, len(as.Tickers))
	for sym := range as.Tickers {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	return symbols
}

// FormatAssessmentText builds the plain-text multi-ticker report.
func FormatAssessmentText(as *model.MultiTickerAssessment) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Multi-Ticker Assessment | %s\n\n", as.Date))
	b.WriteString(fmt.Sprintf("Recommendation: %s (priority %d)\n", as.Recommendation, as.Priority))
	b.WriteString(as.Explanation + "\n")
	if as.SignalEvent != "" {
		b.WriteString(fmt.Sprintf("\nSignal event: %s\n", as.SignalEvent))
	}
	b.WriteString("\nPer-ticker detail:\n")
	for _, sym := range sortedSymbols(as) {
		d := as.Tickers[sym]
		b.WriteString(fmt.Sprintf("  %-6s price=$%.2f sma=$%.2f diff=%+.2f%% [%s]\n",
			sym, d.Price, d.SMA, d.PercentageDiff, d.Status))
	}
	return b.String()
}

// FormatAssessmentHTML builds the HTML multi-ticker report, colouring each
// ticker row with its status colour.
func FormatAssessmentHTML(as *model.MultiTickerAssessment) string {
	var b strings.Builder
	b.WriteString("<html><body>\n")
	b.WriteString(fmt.Sprintf("<h2>Multi-Ticker Assessment &mdash; %s</h2>\n", as.Date))
	b.WriteString(fmt.Sprintf("<p><b>Recommendation: %s</b> (priority %d)</p>\n", as.Recommendation, as.Priority))
	b.WriteString(fmt.Sprintf("<p>%s</p>\n", as.Explanation))
	if as.SignalEvent != "" {
		b.WriteString(fmt.Sprintf("<p><i>Signal event: %s</i></p>\n", as.SignalEvent))
	}
	b.WriteString("<table border=\"1\" cellpadding=\"6\" cellspacing=\"0\">\n")
	b.WriteString("<tr><th>Ticker</th><th>Price</th><th>SMA</th><th>Diff</th><th>Status</th></tr>\n")
	for _, sym := range sortedSymbols(as) {
		d := as.Tickers[sym]
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>$%.2f</td><td>$%.2f</td><td>%+.2f%%</td><td style=\"color:%s\">%s</td></tr>\n",
			sym, d.Price, d.SMA, d.PercentageDiff, d.Color, d.Status))
	}
	b.WriteString("</table>\n</body></html>\n")
	return b.String()
}

func errorKind(err error) string {
	var syncErr *model.SyncError
	var valErr *model.ValidationError
	var cfgErr *model.ConfigError
	switch {
	case errors.As(err, &syncErr):
		return "Data Synchronization"
	case errors.As(err, &valErr):
		return "Data Validation"
	case errors.As(err, &cfgErr):
		return "Configuration"
	default:
		return "Application"
	}
}

// FormatErrorSubject builds the error report subject.
func FormatErrorSubject(symbol string, err error) string {
	return fmt.Sprintf("%s Analysis Error - %s - %s",
		symbol, errorKind(err), time.Now().Format("2006-01-02"))
}

// FormatErrorText builds the plain-text error report.
func FormatErrorText(symbol string, err error) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Analysis failed for %s.\n\n", symbol))
	b.WriteString(fmt.Sprintf("Error type: %s\n", errorKind(err)))
	b.WriteString(fmt.Sprintf("Detail: %v\n", err))
	return b.String()
}
