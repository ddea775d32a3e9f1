package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
	"github.com/kitbuilder587/agro-advisor/internal/geocoding"
	"github.com/kitbuilder587/agro-advisor/internal/llm"
	"github.com/kitbuilder587/agro-advisor/internal/market"
	"github.com/kitbuilder587/agro-advisor/internal/metrics"
	"github.com/kitbuilder587/agro-advisor/internal/ratelimit"
	"github.com/kitbuilder587/agro-advisor/internal/repository"
	"github.com/kitbuilder587/agro-advisor/internal/service"
	"github.com/kitbuilder587/agro-advisor/internal/weather"
)

type stubAdvisory struct {
	err   error
	panic bool
	ctx   context.Context
}

func (s *stubAdvisory) Handle(ctx context.Context, req *domain.AdvisoryRequest) (*domain.AdvisoryResponse, error) {
	s.ctx = ctx
	if s.panic {
		panic("boom")
	}
	return nil, s.err
}

type stubUsers struct {
	service.UserService
	err error
}

func (s stubUsers) Register(ctx context.Context, identity *domain.Identity) error { return s.err }

func (s stubUsers) Login(ctx context.Context, email string) (*domain.Identity, error) {
	return nil, s.err
}

func newTestServer(t *testing.T, opts ...func(*Deps)) http.Handler {
	t.Helper()

	logger := zap.NewNop()
	repo := repository.NewMemoryUserRepository(domain.Identity{Name: "Asha", Email: "a@x.com", Location: "Jaipur, India"})
	users := service.NewUserService(repo, logger)

	// все провайдеры недоступны
	pipeline := service.NewPipeline(service.PipelineDeps{
		Directory: users,
		Locator:   service.NewLocator(geocoding.Disabled{}, service.DefaultLocatorConfig(), logger, nil),
		Weather:   service.NewWeatherReporter(weather.Disabled{}, logger, nil),
		Prices:    service.NewPriceBoard(market.NotIntegrated{}, logger, nil),
		Advisor:   service.NewAdvisor(llm.Disabled{}, logger, nil),
		Logger:    logger,
	})

	deps := Deps{
		Advisory: pipeline,
		Users:    users,
		Logger:   logger,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	return NewServer(deps).Handler()
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestQuery_AllProvidersDown(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/query", `{"query":"What should I plant?","email":"a@x.com"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp domain.AdvisoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.Equal(t, service.FallbackAdvice, resp.Advice)
	assert.Equal(t, "Jaipur, India", resp.Location)
	assert.Equal(t, domain.Coordinates{Lat: 26.9124, Lng: 75.7873, FormattedAddress: "Jaipur, India"}, resp.Coordinates)
	assert.Equal(t, domain.DataCollected{}, resp.DataCollected)

	body := decodeBody(t, rec)
	assert.Contains(t, body, "dataCollected")
	assert.Contains(t, body["coordinates"], "formatted_address")
}

func TestQuery_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing query",
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Query and email are required",
		},
		{
			name:       "missing email",
			body:       `{"query":"q"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Query and email are required",
		},
		{
			name:       "malformed json",
			body:       `{"query":"q","email":"a@x.com"`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Query and email are required",
		},
		{
			name:       "empty body",
			body:       ``,
			wantStatus: http.StatusBadRequest,
			wantError:  "Query and email are required",
		},
		{
			name:       "unknown email",
			body:       `{"query":"q","email":"nobody@x.com"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
	}

	h := newTestServer(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/query", tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.wantError}, decodeBody(t, rec))
		})
	}
}

func TestQuery_LongMultibyteQuery(t *testing.T) {
	h := newTestServer(t)

	query := strings.Repeat("गेहूं ", 150)
	body, err := json.Marshal(domain.AdvisoryRequest{Query: query, Email: "a@x.com"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/query", string(body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp domain.AdvisoryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, service.FallbackAdvice, resp.Advice)
}

func TestQuery_OversizedBody(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/query", `{"query":"`+strings.Repeat("a", maxBodyBytes)+`","email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]any{"error": "Query and email are required"}, decodeBody(t, rec))
}

func TestQuery_InternalError(t *testing.T) {
	h := newTestServer(t, func(d *Deps) {
		d.Advisory = &stubAdvisory{err: errors.New("identity lookup: connection refused")}
	})

	rec := do(t, h, http.MethodPost, "/query", `{"query":"q","email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Failed to process query", body["error"])
	assert.Equal(t, "identity lookup: connection refused", body["details"])
}

func TestQuery_DetachedFromClientCancel(t *testing.T) {
	stub := &stubAdvisory{err: domain.ErrUserNotFound}
	h := newTestServer(t, func(d *Deps) { d.Advisory = stub })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/query", strings.NewReader(`{}`)).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, stub.ctx)
	assert.NoError(t, stub.ctx.Err())
}

func TestQuery_PanicRecovered(t *testing.T) {
	h := newTestServer(t, func(d *Deps) { d.Advisory = &stubAdvisory{panic: true} })

	rec := do(t, h, http.MethodPost, "/query", `{"query":"q","email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal server error", decodeBody(t, rec)["error"])
}

func TestQuery_APIPrefix(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/query", `{"query":"q","email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuery_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/query", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestQuery_RateLimit(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	limiter := ratelimit.New[string](ratelimit.Config{RequestsPerMinute: 2})
	t.Cleanup(limiter.Stop)

	h := newTestServer(t, func(d *Deps) {
		d.Limiter = limiter
		d.Metrics = m
	})

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodPost, "/query", `{"query":"q","email":"a@x.com"}`)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, h, http.MethodPost, "/query", `{"query":"q","email":"a@x.com"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too many requests", decodeBody(t, rec)["error"])

	// лимит только на /query
	rec = do(t, h, http.MethodPost, "/login", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQuery_NoLimiterSharedProxy(t *testing.T) {
	h := newTestServer(t)

	for i := 0; i < 40; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/query", strings.NewReader(`{"query":"q","email":"a@x.com"}`))
		req.RemoteAddr = "10.0.0.1:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i%10))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRegister(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/register", `{"name":"Ravi","email":"R@X.com","location":"Pune, India"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, "User registered successfully", body["message"])
	assert.Equal(t, map[string]any{"name": "Ravi", "email": "r@x.com", "location": "Pune, India"}, body["user"])

	rec = do(t, h, http.MethodPost, "/register", `{"name":"Ravi","email":"r@x.com","location":"Pune, India"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User already exists with this email", decodeBody(t, rec)["error"])

	// после регистрации пользователь сразу доступен пайплайну
	rec = do(t, h, http.MethodPost, "/query", `{"query":"q","email":"r@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		users      service.UserService
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "missing location",
			body:       `{"name":"Ravi","email":"r@x.com"}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Name, email and location are required",
		},
		{
			name:       "malformed json",
			body:       `not json`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Name, email and location are required",
		},
		{
			name:       "directory failure",
			users:      stubUsers{err: errors.New("db down")},
			body:       `{"name":"Ravi","email":"r@x.com","location":"Pune"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to register user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, func(d *Deps) {
				if tt.users != nil {
					d.Users = tt.users
				}
			})

			rec := do(t, h, http.MethodPost, "/register", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, map[string]any{"error": tt.wantError}, decodeBody(t, rec))
		})
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		users      service.UserService
		body       string
		wantStatus int
		wantError  string
	}{
		{
			name:       "known email",
			body:       `{"email":"A@x.com"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown email",
			body:       `{"email":"b@x.com"}`,
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name:       "missing email",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Email is required",
		},
		{
			name:       "directory failure",
			users:      stubUsers{err: errors.New("db down")},
			body:       `{"email":"a@x.com"}`,
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestServer(t, func(d *Deps) {
				if tt.users != nil {
					d.Users = tt.users
				}
			})

			rec := do(t, h, http.MethodPost, "/api/login", tt.body)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeBody(t, rec)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				return
			}
			assert.Equal(t, "Login successful", body["message"])
			assert.Equal(t, map[string]any{"name": "Asha", "email": "a@x.com", "location": "Jaipur, India"}, body["user"])
		})
	}
}

func TestHealthz(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok"}, decodeBody(t, rec))
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	h := newTestServer(t, func(d *Deps) { d.Metrics = m })

	m.RecordRateLimitHit("http")

	rec := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agro_advisor_rate_limit_hits_total")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/healthz", "")
	generated := rec.Header().Get(HeaderRequestID)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(HeaderRequestID))
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", clientIP(req))
}
