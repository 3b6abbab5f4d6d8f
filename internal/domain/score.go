package domain

// Indicator names. Each maps to a bounded [0,100] sub-score.
const (
	IndicatorActivity    = "Activity_Score"
	IndicatorLongevity   = "Longevity_Score"
	IndicatorDiversity   = "Diversity_Score"
	IndicatorGeneralRisk = "General_Risk_Score"
	IndicatorAssetRisk   = "Asset_Risk_Score"
)

// IndicatorOrder is the display order of indicators. Computation does not
// depend on it.
var IndicatorOrder = []string{
	IndicatorActivity,
	IndicatorLongevity,
	IndicatorDiversity,
	IndicatorGeneralRisk,
	IndicatorAssetRisk,
}

// IndicatorSet maps indicator name to its [0,100] value.
type IndicatorSet map[string]float64

// Profile labels, derived from the composite score.
const (
	ProfilePowerUser  = "Power User - High Reputation"
	ProfileStableUser = "Stable User - Medium Reputation"
	ProfileInactive   = "Inactive/New User - Low Reputation"
	ProfileLowTrust   = "Low Trust / Risk-Exposed Wallet"
)

// Diagnostics carries scan-level detail that is not part of the score
// itself but explains how the risk indicators were fed.
type Diagnostics struct {
	ScamCounterpartyCount int      `json:"scam_counterparties_detected"`
	ScamAddressSample     []string `json:"scam_addresses_sample"`
	LabelSource           string   `json:"tags_source"`
}

// ScoreResult is the composite reputation score for one wallet. It is a
// pure derived value, recomputed fresh on every request.
type ScoreResult struct {
	Address     string         `json:"address"`
	FinalScore  float64        `json:"final_score"`
	Profile     string         `json:"profile"`
	Indicators  IndicatorSet   `json:"indicators"`
	Weights     map[string]int `json:"weights"`
	Diagnostics Diagnostics    `json:"diagnostics"`
}
