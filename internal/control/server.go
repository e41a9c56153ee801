// Package control exposes the recording session to editor hosts over a
// loopback HTTP API and a websocket status stream.
package control

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/devbydaniel/whisperclip/internal/domain/dictation"
	"github.com/devbydaniel/whisperclip/pkg/logger"
)

const DefaultAddr = "127.0.0.1:7717"

// Session is the part of dictation.Session the API drives.
type Session interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) (*dictation.StopResult, error)
	State() dictation.State
}

type StatusResponse struct {
	State     string `json:"state"`
	Recording bool   `json:"recording"`
	Text      string `json:"text,omitempty"`
}

type StopResponse struct {
	Transcript string `json:"transcript"`
	File       string `json:"file"`
	DurationMS int64  `json:"duration_ms"`
	AudioMS    int64  `json:"audio_ms,omitempty"`
}

// Server is the control API.
type Server struct {
	session    Session
	hub        *Hub
	logger     *logger.Logger
	onShutdown []func()
}

func NewServer(session Session, hub *Hub, log *logger.Logger) *Server {
	return &Server{
		session: session,
		hub:     hub,
		logger:  log.Named("api"),
	}
}

// Routes returns the API routes
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(s.requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(rejectBrowserOrigins)

	router.Route("/api/v1", func(router chi.Router) {
		router.Post("/recording/start", s.handleStart)
		router.Post("/recording/stop", s.handleStop)
		router.Get("/status", s.handleStatus)
		router.Get("/events", s.hub.ServeHTTP)
		router.Get("/health", s.handleHealth)
	})

	return router
}

// OnShutdown registers fn to run as soon as serving is cancelled, before
// in-flight requests are drained.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// ListenAndServe serves the API on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves the API on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("control API listening", logger.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	for _, fn := range s.onShutdown {
		fn()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	if err := s.session.Start(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	result, err := s.session.Stop(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StopResponse{
		Transcript: result.Transcript,
		File:       result.TranscriptFile,
		DurationMS: result.Recorded.Milliseconds(),
		AudioMS:    result.AudioLength.Milliseconds(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status() StatusResponse {
	ev := s.hub.Last()
	return StatusResponse{
		State:     string(s.session.State()),
		Recording: ev.Recording,
		Text:      ev.Text,
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classify(err)
	if !dictation.IsBenign(err) {
		s.logger.WithRequestID(middleware.GetReqID(r.Context())).Error("request failed",
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
	}
	s.writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("writing response failed", logger.Error(err))
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			s.logger.Debug("HTTP request",
				logger.String("request_id", middleware.GetReqID(r.Context())),
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.Status()),
				logger.Duration("duration", time.Since(start)),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

// rejectBrowserOrigins keeps web pages from driving the microphone through
// the loopback listener. Editor extensions and the CLI send no Origin header.
func rejectBrowserOrigins(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Origin") != "" {
			http.Error(w, "cross-origin requests are not allowed", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
