package trigger

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/datastore"
	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/aleister1102/expirywatch/internal/notifier"
	"github.com/aleister1102/expirywatch/internal/scheduler"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "s3cret"

type fakeService struct {
	passes   int
	checks   []int64
	result   models.PassResult
	passErr  error
	expiry   *time.Time
	checkErr error
}

func (f *fakeService) RunPass(ctx context.Context, source models.PassSource) (models.PassResult, error) {
	f.passes++
	return f.result, f.passErr
}

func (f *fakeService) CheckDomain(ctx context.Context, id int64) (*time.Time, error) {
	f.checks = append(f.checks, id)
	return f.expiry, f.checkErr
}

func newTestServer(svc PassService) *Server {
	cfg := config.NewDefaultTriggerConfig()
	cfg.Enabled = true
	cfg.Token = testToken
	reg := prometheus.NewRegistry()
	return NewServer(cfg, svc, metrics.New(reg), reg, zerolog.Nop())
}

func do(t *testing.T, s *Server, target string, header string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if header != "" {
		req.Header.Set(TokenHeader, header)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCron_Forbidden(t *testing.T) {
	tests := []struct {
		name   string
		target string
		header string
	}{
		{"missing token", "/api/cron", ""},
		{"wrong query token", "/api/cron?token=nope", ""},
		{"wrong header token", "/api/cron", "nope"},
		{"prefix of token", "/api/cron?token=s3c", ""},
		{"check endpoint without token", "/api/check/1", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newTestServer(svc), tt.target, tt.header)

			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "forbidden", strings.TrimSpace(rec.Body.String()))
			assert.Zero(t, svc.passes)
			assert.Empty(t, svc.checks)
		})
	}
}

func TestCron_EmptyConfiguredTokenRejectsAll(t *testing.T) {
	svc := &fakeService{}
	cfg := config.NewDefaultTriggerConfig()
	s := NewServer(cfg, svc, nil, nil, zerolog.Nop())

	rec := do(t, s, "/api/cron?token=", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, svc.passes)
}

func TestCron_OK(t *testing.T) {
	svc := &fakeService{result: models.PassResult{Total: 4, Checked: 4}}
	s := newTestServer(svc)

	for _, req := range []struct{ target, header string }{
		{"/api/cron?token=" + testToken, ""},
		{"/api/cron", testToken},
	} {
		rec := do(t, s, req.target, req.header)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"ok":true,"checked":4}`, rec.Body.String())
	}
	assert.Equal(t, 2, svc.passes)
}

func TestCron_StoreError(t *testing.T) {
	svc := &fakeService{passErr: &models.StoreError{Op: "list domains", Err: errors.New("disk I/O error")}}
	rec := do(t, newTestServer(svc), "/api/cron?token="+testToken, "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Equal(t, "pass failed", body["error"])
	assert.NotContains(t, rec.Body.String(), "disk I/O")
}

func TestCheck(t *testing.T) {
	expiry := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		target   string
		svc      *fakeService
		wantCode int
		wantBody string
	}{
		{
			name:     "success",
			target:   "/api/check/5",
			svc:      &fakeService{expiry: &expiry},
			wantCode: http.StatusOK,
			wantBody: `{"ok":true,"expiry":"2026-03-03T00:00:00Z"}`,
		},
		{
			name:     "no expiry",
			target:   "/api/check/5",
			svc:      &fakeService{},
			wantCode: http.StatusOK,
			wantBody: `{"ok":false,"message":"Unable to fetch expiry"}`,
		},
		{
			name:     "not found",
			target:   "/api/check/5",
			svc:      &fakeService{checkErr: datastore.ErrNotFound},
			wantCode: http.StatusNotFound,
			wantBody: `{"ok":false,"error":"domain not found"}`,
		},
		{
			name:     "manual",
			target:   "/api/check/5",
			svc:      &fakeService{checkErr: scheduler.ErrManualDomain},
			wantCode: http.StatusBadRequest,
			wantBody: `{"ok":false,"error":"manual domains are not checked automatically"}`,
		},
		{
			name:     "resolver failure",
			target:   "/api/check/5",
			svc:      &fakeService{checkErr: &models.ResolverError{Domain: "a.com", Err: errors.New("timeout")}},
			wantCode: http.StatusInternalServerError,
			wantBody: `{"ok":false,"error":"check failed"}`,
		},
		{
			name:     "invalid id",
			target:   "/api/check/abc",
			svc:      &fakeService{},
			wantCode: http.StatusBadRequest,
			wantBody: `{"ok":false,"error":"invalid domain id"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newTestServer(tt.svc), tt.target, testToken)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeService{})
	do(t, s, "/api/cron", "bad")

	rec := do(t, s, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `expirywatch_trigger_requests_total{code="4xx",route="/api/cron"} 1`)
}

type staticResolver struct {
	calls int
}

func (r *staticResolver) FetchExpiry(ctx context.Context, name string) (*time.Time, error) {
	r.calls++
	t := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	return &t, nil
}

func TestCron_ForbiddenHasNoSideEffects(t *testing.T) {
	store, err := datastore.NewSQLiteStore(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer store.Close()

	ctx := context.Background()
	id, err := store.UpsertDomain(ctx, models.Domain{Name: "example.com", Mode: models.DomainModeAuto, AutoRefresh: true})
	require.NoError(t, err)

	resolver := &staticResolver{}
	dispatcher := notifier.NewDispatcher(store, notifier.NewRegistry(), time.Second, nil, zerolog.Nop())
	runner := scheduler.NewRunner(store, resolver, dispatcher, scheduler.RunnerConfig{WarnThresholdDays: 30}, nil, zerolog.Nop())
	service := scheduler.NewService(runner, store, nil, nil, zerolog.Nop())
	s := newTestServer(service)

	rec := do(t, s, "/api/cron?token=wrong", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	logs, err := store.CountLogs(ctx)
	require.NoError(t, err)
	assert.Zero(t, logs)
	assert.Zero(t, resolver.calls)

	d, err := store.GetDomain(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, d.LastCheck)
	assert.Nil(t, d.ExpireAt)

	history, err := store.ListPassHistory(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, history)

	rec = do(t, s, "/api/cron", testToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"checked":1}`, rec.Body.String())
	assert.Equal(t, 1, resolver.calls)
}
