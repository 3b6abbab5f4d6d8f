package scoring

import (
	"math"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
)

// Each indicator is a deterministic pure function of its inputs producing
// a value in [0,100], rounded to 2 decimal places. Raw values are clipped
// to the valid range before rounding so rounding can never push a score
// outside it.

// activityScore combines transaction count and native volume on
// logarithmic curves so the score grows sub-linearly with raw activity.
func activityScore(txs []*domain.TransactionRecord, cfg Config) float64 {
	if len(txs) == 0 {
		return 0.0
	}

	txCount := float64(len(txs))
	volume := 0.0
	for _, tx := range txs {
		volume += tx.ValueEth()
	}

	txNorm := clip(math.Log10(txCount+1)/math.Log10(cfg.ActivityTxCap+1), 0, 1)
	volNorm := clip(math.Log10(volume+1)/math.Log10(cfg.ActivityVolumeCap+1), 0, 1)

	return round2((0.5*txNorm + 0.5*volNorm) * 100.0)
}

// longevityScore maps days since the earliest transaction onto a log curve
// where the reference age (~2 years) scores near 100.
func longevityScore(txs []*domain.TransactionRecord, now time.Time, cfg Config) float64 {
	if len(txs) == 0 {
		return 0.0
	}

	earliest := txs[0].Timestamp
	for _, tx := range txs[1:] {
		if tx.Timestamp < earliest {
			earliest = tx.Timestamp
		}
	}

	days := math.Floor(now.Sub(time.Unix(earliest, 0).UTC()).Hours() / 24)
	if days < 0 {
		days = 0
	}

	score := math.Log(days+1) / math.Log(cfg.LongevityRefDays+1) * 100.0
	return round2(clip(score, 0, 100))
}

// diversityScore counts distinct recipient addresses against a fixed
// threshold.
func diversityScore(txs []*domain.TransactionRecord, cfg Config) float64 {
	if len(txs) == 0 {
		return 0.0
	}

	unique := make(map[string]struct{})
	for _, tx := range txs {
		if tx.To != "" {
			unique[tx.To] = struct{}{}
		}
	}

	score := float64(len(unique)) / cfg.DiversityThreshold * 100.0
	return round2(clip(score, 0, 100))
}

// generalRiskScore decays exponentially with incident count: transactions
// to known scam addresses plus externally detected scam counterparties.
// Absence of activity is absence of risk, so an empty history scores 100.
func generalRiskScore(txs []*domain.TransactionRecord, taggedScamCount int, cfg Config) float64 {
	if len(txs) == 0 {
		return 100.0
	}

	incidents := taggedScamCount
	for _, tx := range txs {
		if cfg.KnownScamAddresses.Contains(tx.To) {
			incidents++
		}
	}

	score := 100.0 * math.Exp(-cfg.GeneralRiskLambda*float64(incidents))
	return round2(clip(score, 0, 100))
}

// assetRiskScore decays with mixer/privacy-tool incidents: transactions to
// mixer addresses plus token transfers involving privacy token contracts.
// Softer decay constant than general risk.
func assetRiskScore(txs []*domain.TransactionRecord, transfers []*domain.TokenTransferRecord, cfg Config) float64 {
	incidents := 0
	for _, tx := range txs {
		if cfg.MixerAddresses.Contains(tx.To) {
			incidents++
		}
	}
	for _, tr := range transfers {
		if cfg.PrivacyTokenContracts.Contains(tr.ContractAddress) {
			incidents++
		}
	}

	score := 100.0 * math.Exp(-cfg.AssetRiskLambda*float64(incidents))
	return round2(clip(score, 0, 100))
}

// clip bounds v to [lo, hi].
func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// round2 rounds to 2 decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
