package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bmorros-uoc/wallet-scoring-system/internal/domain"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/ingestion"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/reputation"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/scoring"
	"github.com/bmorros-uoc/wallet-scoring-system/internal/storage/memory"
)

const testWallet = "0xdadb0d80178819f2319190d340ce9a924f783711"

type noLabels struct{}

func (noLabels) LookupLabel(ctx context.Context, address string) (*reputation.LabelInfo, error) {
	return nil, nil
}
func (noLabels) Configured() bool { return false }
func (noLabels) Source() string   { return reputation.SourceNotConfigured }

type stubSource struct {
	txs []*domain.TransactionRecord
	err error
}

func (s *stubSource) NormalTransactions(ctx context.Context, address string) ([]*domain.TransactionRecord, error) {
	return s.txs, s.err
}

func (s *stubSource) TokenTransfers(ctx context.Context, address string) ([]*domain.TokenTransferRecord, error) {
	return nil, s.err
}

type failingHistory struct{ calls int }

func (f *failingHistory) InsertResult(ctx context.Context, result *domain.ScoreResult, computedAt int64) error {
	f.calls++
	return errors.New("clickhouse down")
}

func newTestServer(t *testing.T, txStore *memory.TransactionStore, opts func(*ServerOptions)) *Server {
	t.Helper()

	records := scoring.NewRecordSource(txStore, memory.NewTokenTransferStore(), nil)
	scanner := reputation.NewScanner(noLabels{}, reputation.WithLookupDelay(0))
	engine, err := scoring.NewEngine(records, scanner, scoring.DefaultConfig(),
		scoring.WithClock(func() time.Time { return time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC) }))
	require.NoError(t, err)

	serverOpts := ServerOptions{Engine: engine}
	if opts != nil {
		opts(&serverOpts)
	}
	return NewServer(serverOpts)
}

func seedWallet(t *testing.T, store *memory.TransactionStore) {
	t.Helper()
	txs := []*domain.TransactionRecord{
		{Hash: "0xaa", Timestamp: 1717200000, From: testWallet, To: "0x1111111111111111111111111111111111111111", Value: "1000000000000000000"},
	}
	require.NoError(t, store.ReplaceForWallet(context.Background(), testWallet, txs))
}

func TestHandleScore_OK(t *testing.T) {
	store := memory.NewTransactionStore()
	seedWallet(t, store)
	srv := newTestServer(t, store, nil)

	req := httptest.NewRequest(http.MethodGet, "/wallet/"+testWallet+"/score", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var result domain.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, testWallet, result.Address)
	assert.NotEmpty(t, result.Profile)
	assert.Len(t, result.Indicators, 5)
	assert.Equal(t, reputation.SourceNotConfigured, result.Diagnostics.LabelSource)
}

func TestHandleScore_NormalizesPathAddress(t *testing.T) {
	store := memory.NewTransactionStore()
	seedWallet(t, store)
	srv := newTestServer(t, store, nil)

	mixed := "0xDadB0d80178819F2319190D340ce9A924f783711"
	req := httptest.NewRequest(http.MethodGet, "/wallet/"+mixed+"/score", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ScoreResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, testWallet, result.Address)
}

func TestHandleScore_BadAddress(t *testing.T) {
	srv := newTestServer(t, memory.NewTransactionStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/wallet/not-an-address/score", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleScore_NoData(t *testing.T) {
	srv := newTestServer(t, memory.NewTransactionStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/wallet/"+testWallet+"/score", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleScore_RefreshIngestsBeforeScoring(t *testing.T) {
	store := memory.NewTransactionStore()
	source := &stubSource{txs: []*domain.TransactionRecord{
		{Hash: "0xaa", Timestamp: 1717200000, From: testWallet, To: "0x1111111111111111111111111111111111111111", Value: "1000000000000000000"},
	}}
	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:        source,
		TxStore:       store,
		TransferStore: memory.NewTokenTransferStore(),
	})
	srv := newTestServer(t, store, func(o *ServerOptions) { o.Ingest = runner })

	// Store is empty: without refresh this would be a 404.
	req := httptest.NewRequest(http.MethodGet, "/wallet/"+testWallet+"/score?refresh=true", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleScore_RefreshUpstreamFailure(t *testing.T) {
	store := memory.NewTransactionStore()
	seedWallet(t, store)
	runner := ingestion.NewRunner(ingestion.RunnerOptions{
		Source:        &stubSource{err: errors.New("rate limited")},
		TxStore:       store,
		TransferStore: memory.NewTokenTransferStore(),
	})
	srv := newTestServer(t, store, func(o *ServerOptions) { o.Ingest = runner })

	req := httptest.NewRequest(http.MethodGet, "/wallet/"+testWallet+"/score?refresh=true", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandleScore_ArchiveFailureIsNonFatal(t *testing.T) {
	store := memory.NewTransactionStore()
	seedWallet(t, store)
	history := &failingHistory{}
	srv := newTestServer(t, store, func(o *ServerOptions) { o.History = history })

	req := httptest.NewRequest(http.MethodGet, "/wallet/"+testWallet+"/score", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, history.calls)
}

func TestHandleRoot(t *testing.T) {
	srv := newTestServer(t, memory.NewTransactionStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var banner bannerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &banner))
	assert.Equal(t, ServiceName, banner.Service)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, memory.NewTransactionStore(), nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
