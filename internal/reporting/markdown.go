package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// RenderMarkdown renders a score result as a Markdown score card.
func RenderMarkdown(r *domain.ScoreResult, generatedAt time.Time) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Wallet Reputation Report\n\n")
	sb.WriteString(fmt.Sprintf("Wallet: `%s`\n\n", r.Address))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", generatedAt.Format(time.RFC3339)))

	// Verdict
	sb.WriteString("## Verdict\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Final Score | %.2f |\n", r.FinalScore))
	sb.WriteString(fmt.Sprintf("| Profile | %s |\n", r.Profile))
	sb.WriteString("\n")

	// Indicators
	sb.WriteString("## Indicators\n\n")
	sb.WriteString("| Indicator | Score | Weight |\n")
	sb.WriteString("|-----------|-------|--------|\n")
	for _, name := range domain.IndicatorOrder {
		sb.WriteString(fmt.Sprintf("| %s | %.2f | %d%% |\n",
			name, r.Indicators[name], r.Weights[name]))
	}
	sb.WriteString("\n")

	// Risk diagnostics
	sb.WriteString("## Risk Diagnostics\n\n")
	sb.WriteString(fmt.Sprintf("Label source: %s\n\n", r.Diagnostics.LabelSource))
	if r.Diagnostics.ScamCounterpartyCount > 0 {
		sb.WriteString(fmt.Sprintf("Flagged counterparties: %d\n\n", r.Diagnostics.ScamCounterpartyCount))
		for _, addr := range r.Diagnostics.ScamAddressSample {
			sb.WriteString(fmt.Sprintf("- `%s`\n", addr))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No flagged counterparties detected.\n\n")
	}

	return sb.String()
}
