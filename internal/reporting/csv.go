package reporting

import (
	"fmt"
	"strings"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// RenderCSV renders score results as a CSV string, one row per indicator
// plus a final composite row per wallet.
func RenderCSV(results []*domain.ScoreResult) string {
	var sb strings.Builder

	// Header
	sb.WriteString("address,indicator,score,weight,final_score,profile\n")

	// Rows
	for _, r := range results {
		for _, name := range domain.IndicatorOrder {
			sb.WriteString(fmt.Sprintf("%s,%s,%.2f,%d,%.2f,%s\n",
				r.Address,
				name,
				r.Indicators[name],
				r.Weights[name],
				r.FinalScore,
				csvEscape(r.Profile),
			))
		}
	}

	return sb.String()
}

// csvEscape quotes a field containing commas.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
