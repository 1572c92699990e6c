// Zaparoo Launcher
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Launcher.
//
// Zaparoo Launcher is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Launcher is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Launcher.  If not, see <http://www.gnu.org/licenses/>.


package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	apimiddleware "github.com/ZaparooProject/zaparoo-launcher/pkg/api/middleware"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/methods"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/api/models/requests"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/apps"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/config"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/helpers/syncutil"
	"github.com/ZaparooProject/zaparoo-launcher/pkg/platforms"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	maxRequestSize  = 1 << 20
	shutdownTimeout = 5 * time.Second
)

var (
	ErrMethodExists  = errors.New("method already registered")
	ErrInvalidMethod = errors.New("invalid method")
)

type MethodFunc func(requests.RequestEnv) (any, error)

// MethodMap is the registry of JSON-RPC methods. Names are matched
// case-insensitively.
type MethodMap struct {
	methods map[string]MethodFunc
	mu      syncutil.RWMutex
}

func NewMethodMap() *MethodMap {
	return &MethodMap{methods: make(map[string]MethodFunc)}
}

// DefaultMethodMap returns a map with every built-in method registered.
func DefaultMethodMap() *MethodMap {
	m := NewMethodMap()
	defaults := map[string]MethodFunc{
		models.MethodApplications:       methods.HandleApplications,
		models.MethodApplicationsSearch: methods.HandleApplicationsSearch,
		models.MethodSettings:           methods.HandleSettings,
		models.MethodVersion:            methods.HandleVersion,
	}
	for name, fn := range defaults {
		if err := m.AddMethod(name, fn); err != nil {
			log.Error().Err(err).Str("method", name).Msg("error registering method")
		}
	}
	return m
}

func (m *MethodMap) AddMethod(name string, fn MethodFunc) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || fn == nil {
		return ErrInvalidMethod
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.methods[name]; ok {
		return fmt.Errorf("%w: %s", ErrMethodExists, name)
	}
	m.methods[name] = fn
	return nil
}

func (m *MethodMap) GetMethod(name string) (MethodFunc, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn, ok := m.methods[strings.ToLower(name)]
	return fn, ok
}

// ListMethods returns the registered method names in sorted order.
func (m *MethodMap) ListMethods() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.methods))
	for name := range m.methods {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

type Server struct {
	cfg       *config.Instance
	platform  platforms.Platform
	discover  requests.DiscoverFunc
	methodMap *MethodMap
	limiter   *apimiddleware.IPRateLimiter
	ipFilter  *apimiddleware.IPFilter
	ws        *melody.Melody
}

type ServerOption func(*Server)

// WithDiscover replaces the function used to scan for applications.
func WithDiscover(fn requests.DiscoverFunc) ServerOption {
	return func(s *Server) {
		s.discover = fn
	}
}

func WithMethodMap(m *MethodMap) ServerOption {
	return func(s *Server) {
		s.methodMap = m
	}
}

func WithRateLimiter(l *apimiddleware.IPRateLimiter) ServerOption {
	return func(s *Server) {
		s.limiter = l
	}
}

// NewServer creates an API server. By default every request runs a fresh
// scan built from the current config.
func NewServer(cfg *config.Instance, pl platforms.Platform, opts ...ServerOption) *Server {
	s := &Server{
		cfg:      cfg,
		platform: pl,
		discover: func(ctx context.Context) ([]apps.Application, error) {
			return apps.NewScannerFromConfig(cfg, pl).Discover(ctx)
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.methodMap == nil {
		s.methodMap = DefaultMethodMap()
	}
	if s.limiter == nil {
		s.limiter = apimiddleware.NewIPRateLimiter()
	}
	s.ipFilter = apimiddleware.NewIPFilter(cfg.AllowedIPs())

	s.ws = melody.New()
	s.ws.Config.MaxMessageSize = maxRequestSize
	s.ws.Upgrader.CheckOrigin = s.checkOrigin
	s.ws.HandleMessage(apimiddleware.WebSocketRateLimitHandler(s.limiter, s.handleWSMessage))

	return s
}

func maybeUUID(req *models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

func encodeError(id uuid.UUID, errObj models.ErrorObject) []byte {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling error response")
		return nil
	}
	return data
}

func encodeResult(id uuid.UUID, result any) []byte {
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		return encodeError(id, models.ErrorServerError)
	}
	return data
}

// processRequest handles a single JSON-RPC payload and returns the encoded
// reply. A nil reply means the payload was a notification.
func (s *Server) processRequest(ctx context.Context, remoteAddr string, msg []byte) []byte {
	if !json.Valid(msg) {
		log.Warn().Msg("request is not valid json")
		return encodeError(uuid.Nil, models.ErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Warn().Err(err).Msg("error decoding request")
		return encodeError(uuid.Nil, models.ErrorInvalidRequest)
	}

	if req.JSONRPC != "2.0" {
		log.Warn().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return encodeError(maybeUUID(&req), models.ErrorInvalidRequest)
	}

	if req.Method == "" {
		return encodeError(maybeUUID(&req), models.ErrorInvalidRequest)
	}

	if req.ID == nil {
		log.Info().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	fn, ok := s.methodMap.GetMethod(req.Method)
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return encodeError(*req.ID, models.ErrorMethodNotFound)
	}

	// no deadline: a scan runs to completion however long it takes
	start := time.Now()
	resp, err := fn(requests.RequestEnv{
		Context:  ctx,
		Platform: s.platform,
		Config:   s.cfg,
		Discover: s.discover,
		Params:   req.Params,
		ID:       *req.ID,
	})
	log.Debug().
		Str("method", req.Method).
		Str("remote", remoteAddr).
		Dur("duration", time.Since(start)).
		Msg("request handled")

	if err != nil {
		errObj := models.ErrorObject{
			Code:    models.ErrorServerError.Code,
			Message: err.Error(),
		}
		if models.IsClientError(err) {
			errObj.Code = models.ErrorInvalidParams.Code
		} else {
			log.Error().Err(err).Str("method", req.Method).Msg("error handling request")
		}
		return encodeError(*req.ID, errObj)
	}

	return encodeResult(*req.ID, resp)
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat
	if string(msg) == "ping" {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	reply := s.processRequest(session.Request.Context(), session.Request.RemoteAddr, msg)
	if reply == nil {
		return
	}
	if err := session.Write(reply); err != nil {
		log.Error().Err(err).Msg("error sending response")
	}
}

// checkOrigin accepts WebSocket upgrades from non-browser clients, which
// send no Origin, and from the same origins CORS allows.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if slices.Contains(s.cfg.AllowedOrigins(), origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return true
	}
	log.Debug().Str("origin", origin).Msg("rejected websocket origin")
	return false
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.HandleRequest(w, r); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("handling websocket request")
	}
}

// handlePost serves JSON-RPC over plain HTTP. Protocol errors are returned
// in the body with a 200 status; notifications get 204 and no body.
func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		http.Error(w, "Content-Type must be application/json", http.StatusUnsupportedMediaType)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestSize))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "Error reading request body", http.StatusBadRequest)
		return
	}

	reply := s.processRequest(r.Context(), r.RemoteAddr, body)
	if reply == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(reply); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

// Handler returns the HTTP routes for the API: WebSocket upgrades on GET
// and rate limited JSON-RPC on POST.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.HTTPIPFilterMiddleware(s.ipFilter))
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: append(
			[]string{"http://localhost:*", "http://127.0.0.1:*"},
			s.cfg.AllowedOrigins()...,
		),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	r.Get("/api", s.handleWS)
	r.Get("/api/v0.1", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(apimiddleware.HTTPRateLimitMiddleware(s.limiter))
		r.Post("/api", s.handlePost)
		r.Post("/api/v0.1", s.handlePost)
	})

	return r
}

// Serve runs the API on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.limiter.StartCleanup(ctx)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", ln.Addr().String()).Msg("starting api server")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("api server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug().Msg("closing api server via context cancellation")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := s.ws.Close(); err != nil {
			log.Debug().Err(err).Msg("closing websocket sessions")
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("api server shutdown: %w", err)
		}
		return nil
	})

	err := g.Wait()
	if err != nil {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Start listens on the configured API port and serves until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	addr := net.JoinHostPort("", strconv.Itoa(s.cfg.APIPort()))

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}
