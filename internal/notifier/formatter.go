package notifier

import (
	"fmt"
	"strings"
	"time"

	"BreakoutSentinel/internal/model"
	"BreakoutSentinel/internal/trainer"
)

// FormatScanReport renders the ranked candidate list plus the headline
// pattern match into one Discord message.
func FormatScanReport(results []model.ScreeningResult, matches []model.PatternMatch, headline *model.PatternMatch, universeSize, failed int) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("**BreakoutSentinel scan** | %s\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("universe %d tickers, %d fetch failures\n\n", universeSize, failed))

	if len(results) == 0 {
		b.WriteString("No candidates passed the screen today.\n")
	} else {
		b.WriteString("**Ranked candidates:**\n")
		for _, r := range results {
			line := fmt.Sprintf("%2d. %s  close %.2f", r.Rank, r.Ticker, r.LastClose)
			if model.Defined(r.Indicators.WilliamsR) {
				line += fmt.Sprintf("  W%%R %.1f", r.Indicators.WilliamsR)
			}
			if model.Defined(r.Indicators.RSI) {
				line += fmt.Sprintf("  RSI %.0f", r.Indicators.RSI)
			}
			if r.Scored {
				line += fmt.Sprintf("  score %.2f", r.ModelScore)
			}
			b.WriteString(line + "\n")
		}
	}

	if headline != nil {
		b.WriteString(fmt.Sprintf("\n**Cup & handle:** %s (anchor %s)",
			headline.Ticker, headline.AnchorDate.Format("2006-01-02")))
		if len(matches) > 1 {
			b.WriteString(fmt.Sprintf(" and %d more", len(matches)-1))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// FormatTrainingReport renders the held-out evaluation of a retrained
// model.
func FormatTrainingReport(report trainer.Report) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("**Model retrained** | %s\n", time.Now().Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("rows %d (%d positive), balanced=%v\n", report.Samples, report.Positives, report.Balanced))
	b.WriteString(fmt.Sprintf("params: trees=%d depth=%d leaf=%d\n",
		report.BestParams.Trees, report.BestParams.MaxDepth, report.BestParams.MinLeaf))
	b.WriteString(fmt.Sprintf("accuracy %.3f\n", report.Accuracy))
	for _, class := range []int{0, 1} {
		m := report.PerClass[class]
		b.WriteString(fmt.Sprintf("class %d: P %.3f / R %.3f / F1 %.3f (n=%d)\n",
			class, m.Precision, m.Recall, m.F1, m.Support))
	}
	return b.String()
}

// FormatRunFailure renders a run-level failure notice.
func FormatRunFailure(stage string, err error) string {
	return fmt.Sprintf("**BreakoutSentinel %s failed**: %v", stage, err)
}
