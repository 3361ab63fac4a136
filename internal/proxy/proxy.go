// Package proxy serves the backend under the frontend's /api paths.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Hop-by-hop headers that must not be forwarded
var hopHeaders = map[string]bool{
	"Connection":          true,
	"Keep-Alive":          true,
	"Proxy-Authenticate":  true,
	"Proxy-Authorization": true,
	"Proxy-Connection":    true,
	"Te":                  true,
	"Trailers":            true,
	"Transfer-Encoding":   true,
	"Upgrade":             true,
}

// Rewrite maps an incoming path to a backend path
type Rewrite struct {
	Source      string
	Destination string
}

// DefaultRewrites is the frontend rewrite table. The bare /chat and /health
// routes are kept for older clients.
var DefaultRewrites = []Rewrite{
	{Source: "/api/chat", Destination: "/chat"},
	{Source: "/api/health", Destination: "/health"},
	{Source: "/api/", Destination: "/"},
	{Source: "/chat", Destination: "/chat"},
	{Source: "/health", Destination: "/health"},
}

const shutdownTimeout = 10 * time.Second

// Server forwards rewritten requests to one backend
type Server struct {
	target   *url.URL
	rewrites []Rewrite
	client   *http.Client
	logger   zerolog.Logger
}

// Option configures a Server
type Option func(*Server)

// WithRewrites replaces the rewrite table
func WithRewrites(rewrites []Rewrite) Option {
	return func(s *Server) {
		s.rewrites = rewrites
	}
}

// WithLogger sets the access logger
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithClient replaces the upstream HTTP client
func WithClient(client *http.Client) Option {
	return func(s *Server) {
		s.client = client
	}
}

// New creates a proxy in front of target
func New(target string, opts ...Option) (*Server, error) {
	u, err := url.Parse(strings.TrimRight(target, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid proxy target %q: %w", target, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid proxy target %q: scheme must be http or https", target)
	}

	s := &Server{
		target:   u,
		rewrites: DefaultRewrites,
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
			// Redirects are passed through to the caller
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler returns the routing handler
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(cors)

	for _, rw := range s.rewrites {
		r.Handle(rw.Source, s.forward(rw.Destination))
		// "/api/" is also reachable as "/api"
		if trimmed := strings.TrimSuffix(rw.Source, "/"); trimmed != rw.Source && trimmed != "" {
			r.Handle(trimmed, s.forward(rw.Destination))
		}
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Str("target", s.target.String()).Msg("proxy listening")
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("proxy server error: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("proxy shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("proxy shutdown: %w", err)
	}
	return nil
}

func (s *Server) forward(destination string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := *s.target
		target.Path = s.target.Path + destination
		target.RawQuery = r.URL.RawQuery

		proxyReq, err := http.NewRequestWithContext(r.Context(), r.Method, target.String(), r.Body)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to build upstream request")
			return
		}
		proxyReq.ContentLength = r.ContentLength

		for name, values := range r.Header {
			if hopHeaders[name] {
				continue
			}
			for _, value := range values {
				proxyReq.Header.Add(name, value)
			}
		}
		if id := chimiddleware.GetReqID(r.Context()); id != "" && proxyReq.Header.Get("X-Request-ID") == "" {
			proxyReq.Header.Set("X-Request-ID", id)
		}
		if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			proxyReq.Header.Set("X-Forwarded-For", ip)
		} else if r.RemoteAddr != "" {
			proxyReq.Header.Set("X-Forwarded-For", r.RemoteAddr)
		}

		resp, err := s.client.Do(proxyReq)
		if err != nil {
			s.logger.Warn().Err(err).Str("upstream", target.String()).Msg("forwarding failed")
			writeError(w, http.StatusBadGateway, "backend unavailable")
			return
		}
		defer resp.Body.Close()

		for name, values := range resp.Header {
			if hopHeaders[name] {
				continue
			}
			w.Header()[name] = values
		}
		w.WriteHeader(resp.StatusCode)
		if _, err := io.Copy(w, resp.Body); err != nil {
			s.logger.Debug().Err(err).Msg("copying upstream body")
		}
	}
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("size", ww.BytesWritten()).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("proxy request")
	})
}

// cors allows any origin and answers preflight requests directly
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
