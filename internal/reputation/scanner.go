package reputation

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/observability"
)

// Default scanner configuration.
const (
	DefaultMaxCandidates = 40
	DefaultLookupDelay   = 550 * time.Millisecond
	maxSampleSize        = 10
)

// Label source identifiers reported in score diagnostics.
const (
	SourceEtherscanNametag = "etherscan_nametag"
	SourceNotConfigured    = "not_configured"
)

// LabelProvider looks up reputation labels for a single address.
// A (nil, nil) return means the address has no label information.
type LabelProvider interface {
	LookupLabel(ctx context.Context, address string) (*LabelInfo, error)

	// Configured reports whether the provider can perform lookups at all
	// (e.g. an API credential is present).
	Configured() bool

	// Source identifies the provider in score diagnostics.
	Source() string
}

// ScanResult is the outcome of a counterparty risk scan.
type ScanResult struct {
	// ScamCount is the number of counterparties classified as scam.
	ScamCount int

	// Sample holds up to 10 flagged addresses for diagnostics.
	Sample []string

	// Source identifies where labels came from, or SourceNotConfigured
	// when no lookups were attempted.
	Source string
}

// Scanner performs best-effort counterparty risk scans over a wallet's
// transaction set. Individual lookup failures count as "not flagged" and
// never abort the scan.
type Scanner struct {
	provider      LabelProvider
	markers       []string
	maxCandidates int
	delay         time.Duration
	logger        *log.Logger
}

// ScannerOption configures Scanner.
type ScannerOption func(*Scanner)

// WithMarkers overrides the scam marker vocabulary.
func WithMarkers(markers []string) ScannerOption {
	return func(s *Scanner) {
		s.markers = markers
	}
}

// WithMaxCandidates caps how many counterparties are looked up per scan.
func WithMaxCandidates(n int) ScannerOption {
	return func(s *Scanner) {
		s.maxCandidates = n
	}
}

// WithLookupDelay sets the minimum delay between consecutive lookups.
func WithLookupDelay(d time.Duration) ScannerOption {
	return func(s *Scanner) {
		s.delay = d
	}
}

// WithLogger sets the scanner logger.
func WithLogger(logger *log.Logger) ScannerOption {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a counterparty risk scanner.
func NewScanner(provider LabelProvider, opts ...ScannerOption) *Scanner {
	s := &Scanner{
		provider:      provider,
		markers:       DefaultScamMarkers,
		maxCandidates: DefaultMaxCandidates,
		delay:         DefaultLookupDelay,
		logger:        log.New(log.Writer(), "[reputation] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan looks up the most frequent recipients of the transaction set and
// counts how many carry a scam-adjacent label. The scan is interruptible
// between lookups: on context cancellation it returns the partial result.
func (s *Scanner) Scan(ctx context.Context, txs []*domain.TransactionRecord) ScanResult {
	if s.provider == nil || !s.provider.Configured() {
		return ScanResult{Source: SourceNotConfigured}
	}

	start := time.Now()
	defer func() {
		observability.RecordScanDuration(time.Since(start).Seconds())
	}()

	result := ScanResult{Source: s.provider.Source()}
	candidates := topRecipients(txs, s.maxCandidates)

	for i, addr := range candidates {
		if !domain.IsValidAddress(addr) {
			continue
		}

		if i > 0 {
			// Courtesy delay so the scan does not hammer the label
			// service's rate limit.
			select {
			case <-ctx.Done():
				return result
			case <-time.After(s.delay):
			}
		}

		info, err := s.provider.LookupLabel(ctx, addr)
		if err != nil {
			// Best effort: a failed lookup means "not flagged".
			observability.RecordLabelLookup("error")
			s.logger.Printf("label lookup failed for %s: %v", addr, err)
			continue
		}
		observability.RecordLabelLookup("ok")

		if ClassifyAsScam(info, s.markers) {
			observability.RecordScamFlagged()
			result.ScamCount++
			if len(result.Sample) < maxSampleSize {
				result.Sample = append(result.Sample, addr)
			}
		}
	}

	return result
}

// topRecipients ranks recipient addresses by occurrence count descending,
// ties broken by first appearance, and returns at most max entries.
func topRecipients(txs []*domain.TransactionRecord, max int) []string {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)

	for i, tx := range txs {
		to := tx.To
		if to == "" {
			continue
		}
		if _, seen := counts[to]; !seen {
			firstSeen[to] = i
			order = append(order, to)
		}
		counts[to]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > max {
		order = order[:max]
	}
	return order
}
