// Package http exposes the dashboard JSON API.
package http

import (
	"container/list"
	"context"
	"net/http"
	"sync"
	"time"

	"seiva/internal/ai"
	"seiva/internal/core"
	"seiva/internal/log"
	"seiva/internal/pdf"
	"seiva/internal/services"
	"seiva/internal/store"
)

// LRU cache with TTL and size-based eviction
type lruCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
}

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

func newLRUCache[T any](maxSize int, ttl time.Duration) *lruCache[T] {
	return &lruCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
	}
}

func (c *lruCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	if time.Now().After(item.expiresAt) {
		c.removeElement(elem)
		return zero, false
	}

	c.lru.MoveToFront(elem)
	return item.data, true
}

func (c *lruCache[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := &cacheItem[T]{
		key:       key,
		data:      data,
		expiresAt: time.Now().Add(c.ttl),
	}

	if elem, exists := c.items[key]; exists {
		elem.Value = item
		c.lru.MoveToFront(elem)
		return
	}

	elem := c.lru.PushFront(item)
	c.items[key] = elem

	if c.lru.Len() > c.maxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeElement(oldest)
		}
	}
}

func (c *lruCache[T]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

func (c *lruCache[T]) removeElement(elem *list.Element) {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
}

// CleanExpired removes all expired entries.
func (c *lruCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	var toRemove []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		item := elem.Value.(*cacheItem[T])
		if now.After(item.expiresAt) {
			toRemove = append(toRemove, elem)
		}
	}
	for _, elem := range toRemove {
		c.removeElement(elem)
	}
	return len(toRemove)
}

// Assistant is the slice of the AI client the handlers need.
type Assistant interface {
	Chat(ctx context.Context, message string, history []ai.ChatTurn) (string, error)
	GenerateImage(ctx context.Context, prompt, size string) (string, error)
	SynthesizeSpeech(ctx context.Context, text string) (*ai.SpeechClip, error)
}

// Options collects the server's collaborators.
type Options struct {
	Addr           string
	AccessPIN      string
	DefaultLogoURL string
	TuitionRule    core.TuitionRule

	Data      *services.DataService
	Settings  store.SettingsStore
	Assistant Assistant
	Renderer  *pdf.Renderer
	Logger    *log.Logger
}

type Server struct {
	http.Server

	data      *services.DataService
	settings  store.SettingsStore
	assistant Assistant
	renderer  *pdf.Renderer
	logger    *log.Logger

	accessPIN      string
	defaultLogoURL string
	tuitionRule    core.TuitionRule

	sessions    *sessionStore
	rateLimiter *rateLimiter

	// Dashboard summaries keyed by period, dropped on any mutation
	summaryCache *lruCache[core.Summary]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// Simple in-memory rate limiter
type rateLimiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type clientInfo struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients:     make(map[string]*clientInfo),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-10 * time.Minute)
	for ip, client := range rl.clients {
		if client.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow admits up to 60 requests per client per minute.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.clients[clientIP]

	if !exists {
		rl.clients[clientIP] = &clientInfo{lastRequest: now, requests: 1}
		return true
	}

	if now.Sub(client.lastRequest) > time.Minute {
		client.requests = 1
		client.lastRequest = now
		return true
	}

	client.requests++
	client.lastRequest = now
	return client.requests <= 60
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		data:             opts.Data,
		settings:         opts.Settings,
		assistant:        opts.Assistant,
		renderer:         opts.Renderer,
		logger:           opts.Logger.WithComponent("http"),
		accessPIN:        opts.AccessPIN,
		defaultLogoURL:   opts.DefaultLogoURL,
		tuitionRule:      opts.TuitionRule,
		sessions:         newSessionStore(24 * time.Hour),
		rateLimiter:      newRateLimiter(),
		summaryCache:     newLRUCache[core.Summary](16, time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/pin", s.with(s.handleAuthPIN))
	mux.HandleFunc("POST /api/auth/logout", s.withAuth(s.handleLogout))

	mux.HandleFunc("GET /api/dashboard", s.withAuth(s.handleDashboard))

	mux.HandleFunc("GET /api/transactions", s.withAuth(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.withAuth(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withAuth(s.handleDeleteTransaction))

	mux.HandleFunc("GET /api/students", s.withAuth(s.handleListStudents))
	mux.HandleFunc("POST /api/students", s.withAuth(s.handleCreateStudent))
	mux.HandleFunc("DELETE /api/students/{id}", s.withAuth(s.handleDeleteStudent))

	mux.HandleFunc("GET /api/accounts", s.withAuth(s.handleListAccounts))
	mux.HandleFunc("GET /api/tuition/quote", s.withAuth(s.handleTuitionQuote))

	mux.HandleFunc("POST /api/ai/chat", s.withAuth(s.handleAIChat))
	mux.HandleFunc("POST /api/ai/image", s.withAuth(s.handleAIImage))
	mux.HandleFunc("POST /api/ai/speech", s.withAuth(s.handleAISpeech))

	mux.HandleFunc("GET /api/receipts/{id}", s.withAuth(s.handleReceipt))
	mux.HandleFunc("GET /api/reports/monthly", s.withAuth(s.handleMonthlyReport))

	mux.HandleFunc("GET /api/settings/logo", s.withAuth(s.handleGetLogo))
	mux.HandleFunc("PUT /api/settings/logo", s.withAuth(s.handleSetLogo))

	return s
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cleaned := s.summaryCache.CleanExpired()
			if cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
			s.sessions.cleanExpired()
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// Shutdown gracefully shuts down the server and cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		close(s.stopCacheCleanup)
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// with adds security headers, rate limiting and request logging.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)
		requestID := generateRequestID()

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		s.logger.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if !s.rateLimiter.allow(clientIP) {
			s.logger.Warn("Rate limit exceeded", "client_ip", clientIP, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

// withAuth is with plus a bearer token check.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return s.with(func(w http.ResponseWriter, r *http.Request) {
		if !s.sessions.valid(bearerToken(r)) {
			writeError(w, http.StatusUnauthorized, "missing or expired session")
			return
		}
		next(w, r)
	})
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
