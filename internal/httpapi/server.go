package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/metrics"
	"github.com/kitbuilder587/agro-advisor/internal/ratelimit"
	"github.com/kitbuilder587/agro-advisor/internal/service"
)

type Deps struct {
	Advisory service.AdvisoryService
	Users    service.UserService
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	// Limiter на IP для /query; nil - без лимита
	Limiter *ratelimit.Limiter[string]
}

type Server struct {
	advisory service.AdvisoryService
	users    service.UserService
	logger   *zap.Logger
	metrics  *metrics.Metrics
	limiter  *ratelimit.Limiter[string]
	mux      *http.ServeMux
}

func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	s := &Server{
		advisory: deps.Advisory,
		users:    deps.Users,
		logger:   deps.Logger,
		metrics:  deps.Metrics,
		limiter:  deps.Limiter,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Handler - mux, обернутый в request id, логирование и recover
func (s *Server) Handler() http.Handler {
	return s.withRequestID(s.withLogging(s.withRecover(s.mux)))
}

func (s *Server) routes() {
	// веб-клиент ходит через /api, поэтому все маршруты монтируются дважды
	for _, prefix := range []string{"", "/api"} {
		s.mux.Handle("POST "+prefix+"/query", s.withRateLimit(http.HandlerFunc(s.handleQuery)))
		s.mux.HandleFunc("POST "+prefix+"/register", s.handleRegister)
		s.mux.HandleFunc("POST "+prefix+"/login", s.handleLogin)
		s.mux.HandleFunc("GET "+prefix+"/healthz", s.handleHealth)
	}

	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
}
