package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/kitbuilder587/agro-advisor/internal/domain"
)

const maxBodyBytes = 64 << 10

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type userResponse struct {
	Message string           `json:"message"`
	User    *domain.Identity `json:"user"`
}

type loginRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req domain.AdvisoryRequest
	if err := s.decode(w, r, &req); err != nil {
		req = domain.AdvisoryRequest{}
	}

	// клиент может отвалиться, но пайплайн доводим до конца
	resp, err := s.advisory.Handle(context.WithoutCancel(r.Context()), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Query and email are required"})
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "User not found"})
		default:
			s.requestLogger(r).Error("query failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{
				Error:   "Failed to process query",
				Details: err.Error(),
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var identity domain.Identity
	if err := s.decode(w, r, &identity); err != nil {
		identity = domain.Identity{}
	}

	if err := s.users.Register(r.Context(), &identity); err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingRegistration):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Name, email and location are required"})
		case errors.Is(err, domain.ErrUserExists):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "User already exists with this email"})
		default:
			s.requestLogger(r).Error("register failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to register user"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, userResponse{
		Message: "User registered successfully",
		User:    &identity,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := s.decode(w, r, &req); err != nil {
		req = loginRequest{}
	}

	identity, err := s.users.Login(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingEmail):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Email is required"})
		case errors.Is(err, domain.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "User not found"})
		default:
			s.requestLogger(r).Error("login failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to login"})
		}
		return
	}

	writeJSON(w, http.StatusOK, userResponse{
		Message: "Login successful",
		User:    identity,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decode: при ошибке вызывающий обнуляет dst, битый JSON равносилен пустому телу
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		s.requestLogger(r).Debug("request body not decoded", zap.Error(err))
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
