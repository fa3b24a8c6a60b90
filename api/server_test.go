package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"cosmossdk.io/log"
	"github.com/stretchr/testify/require"

	"github.com/paw-chain/burnoracle/app/health"
	keepertest "github.com/paw-chain/burnoracle/testutil/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/keeper"
	"github.com/paw-chain/burnoracle/x/oracle/types"
)

func fixtureSource(f *keepertest.OracleFixture) QuerySource {
	return func() (context.Context, types.QueryServer, func(), error) {
		return f.Ctx, keeper.NewQueryServerImpl(*f.Keeper), func() {}, nil
	}
}

func newTestServer(t *testing.T, source QuerySource, cfg *Config) http.Handler {
	t.Helper()
	if cfg == nil {
		cfg = DefaultConfig()
		cfg.RateLimitRPS = 0
	}
	s, err := NewServer(source, cfg, log.NewNopLogger())
	require.NoError(t, err)
	return s.Handler()
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// finalizedFixture has feed 1 finalized at 106 from two reporters
func finalizedFixture(t *testing.T) *keepertest.OracleFixture {
	f := keepertest.NewOracleFixture(t)
	feedID := f.CreateFeed(t, "BTC/USD")
	f.Submit(t, keepertest.TestAddr(1), feedID, 100, 1_000_000)
	f.Submit(t, keepertest.TestAddr(2), feedID, 110, 2_000_000)
	f.AtHeight(10)
	_, err := f.Keeper.FinalizeConsensus(f.Ctx, feedID, 0)
	require.NoError(t, err)
	return f
}

func TestServer_Price(t *testing.T) {
	f := finalizedFixture(t)
	h := newTestServer(t, fixtureSource(f), nil)

	rec := get(t, h, "/oracle/v1/feeds/1/price")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res types.QueryPriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Equal(t, "106", res.Price.String())
	require.Equal(t, f.Ctx.BlockTime().Unix(), res.Timestamp)
}

func TestServer_ErrorMapping(t *testing.T) {
	f := finalizedFixture(t)
	h := newTestServer(t, fixtureSource(f), nil)

	tests := []struct {
		path string
		code int
	}{
		{"/oracle/v1/feeds/abc", http.StatusBadRequest},
		{"/oracle/v1/feeds/9", http.StatusNotFound},
		{"/oracle/v1/feeds/1/windows/xyz", http.StatusBadRequest},
		{"/oracle/v1/feeds/1/windows/20", http.StatusNotFound},
		{"/oracle/v1/reporters/bogus/reputation", http.StatusBadRequest},
		{"/oracle/v1/feeds/1/history?limit=-1", http.StatusBadRequest},
		{"/oracle/v1/feeds/1", http.StatusOK},
		{"/oracle/v1/feeds/1/windows/0", http.StatusOK},
		{"/oracle/v1/status", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(t, h, tt.path)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			if tt.code != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.NotEmpty(t, body.Error)
			}
		})
	}
}

func TestServer_ReporterEndpoints(t *testing.T) {
	f := finalizedFixture(t)
	h := newTestServer(t, fixtureSource(f), nil)
	reporter := keepertest.TestAddr(2).String()

	rec := get(t, h, "/oracle/v1/reporters/"+reporter+"/reputation")
	require.Equal(t, http.StatusOK, rec.Code)
	var rep types.QueryOracleReputationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	require.Equal(t, uint64(105), rep.Reputation.Score)
	require.Equal(t, uint64(100), rep.Multiplier)

	rec = get(t, h, "/oracle/v1/reporters/"+reporter+"/required-burn")
	require.Equal(t, http.StatusOK, rec.Code)
	var burn types.QueryRequiredBurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &burn))
	require.Equal(t, "1000000", burn.Amount.String())

	rec = get(t, h, "/oracle/v1/feeds/1/windows/0/submissions/"+reporter)
	require.Equal(t, http.StatusOK, rec.Code)
	var sub types.QuerySubmissionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sub))
	require.Equal(t, "110", sub.Submission.Price.String())
}

func TestServer_History(t *testing.T) {
	f := finalizedFixture(t)
	h := newTestServer(t, fixtureSource(f), nil)

	rec := get(t, h, "/oracle/v1/feeds/1/history?limit=10")
	require.Equal(t, http.StatusOK, rec.Code)

	var res types.QueryConsensusHistoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Entries, 1)
	require.Equal(t, uint64(1), res.Entries[0].Round)
}

func TestServer_StateUnavailable(t *testing.T) {
	source := func() (context.Context, types.QueryServer, func(), error) {
		return nil, nil, nil, errors.New("resource temporarily unavailable")
	}
	h := newTestServer(t, source, nil)

	rec := get(t, h, "/oracle/v1/status")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = get(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code, "liveness does not touch state")

	rec = get(t, h, "/health/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_HealthDetailed(t *testing.T) {
	f := finalizedFixture(t)
	_, err := f.Keeper.ToggleEmergencyPause(f.Ctx, keepertest.EmergencyAdmin.String())
	require.NoError(t, err)
	h := newTestServer(t, fixtureSource(f), nil)

	rec := get(t, h, "/health/detailed")
	require.Equal(t, http.StatusOK, rec.Code)

	var check health.HealthCheck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &check))
	require.Equal(t, health.StatusDegraded, check.Status)
	require.Equal(t, health.StatusDegraded, check.Components[health.ComponentCircuitBreaker].Status)
	require.Equal(t, health.StatusHealthy, check.Components[health.ComponentState].Status)
}

func TestServer_RequestID(t *testing.T) {
	f := keepertest.NewOracleFixture(t)
	h := newTestServer(t, fixtureSource(f), nil)

	rec := get(t, h, "/health")
	require.NotEmpty(t, rec.Header().Get(headerRequestID))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(headerRequestID, "abc-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Header().Get(headerRequestID))
}

func TestServer_RateLimit(t *testing.T) {
	f := keepertest.NewOracleFixture(t)
	cfg := DefaultConfig()
	cfg.RateLimitRPS = 1
	h := newTestServer(t, fixtureSource(f), cfg)

	// burst is twice the rate
	require.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	require.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	require.Equal(t, http.StatusTooManyRequests, get(t, h, "/health").Code)
}
