package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/resume-builder/internal/config"
	"github.com/jonathan/resume-builder/internal/editor"
	"github.com/jonathan/resume-builder/internal/preview"
	"github.com/jonathan/resume-builder/internal/rendering"
	"github.com/jonathan/resume-builder/internal/server/middleware"
	"github.com/jonathan/resume-builder/internal/server/ratelimit"
)

// PDFPrinter renders a laid-out document to PDF by some means other than the native backend.
type PDFPrinter interface {
	WritePDF(ctx context.Context, w io.Writer, doc *rendering.Document) error
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	editor      *editor.Editor
	preview     *preview.Scheduler
	events      *previewEvents
	browser     PDFPrinter
	useBrowser  bool
	template    string
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
}

// Config holds server configuration
type Config struct {
	Port    int
	Editor  *editor.Editor
	Preview *preview.Scheduler // optional
	Browser PDFPrinter         // optional; enables ?engine=browser
	// UseBrowser makes the browser engine the default for PDF exports.
	UseBrowser   bool
	TemplatePath string            // optional LaTeX template
	JWT          *config.JWTConfig // nil disables authentication
	RateLimit    *ratelimit.Config // nil loads from the environment
}

// New creates a new server instance
func New(cfg Config) (*Server, error) {
	if cfg.Editor == nil {
		return nil, fmt.Errorf("server requires an editor")
	}
	if cfg.UseBrowser && cfg.Browser == nil {
		return nil, fmt.Errorf("browser engine requested but not configured")
	}

	s := &Server{
		editor:     cfg.Editor,
		preview:    cfg.Preview,
		events:     newPreviewEvents(),
		browser:    cfg.Browser,
		useBrowser: cfg.UseBrowser,
		template:   cfg.TemplatePath,
	}

	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig(os.Getenv)
	}
	s.rateLimiter = ratelimit.NewLimiter(rl)

	if cfg.JWT != nil {
		s.jwtService = NewJWTService(cfg.JWT)
	}

	if s.preview != nil {
		s.preview.OnLive(s.events.publish)
		s.editor.Subscribe(s.preview.Request)
		s.preview.Request(s.editor.Snapshot())
	}

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second, // browser exports can be slow
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

// Handler returns the full middleware chain around the router.
func (s *Server) Handler() http.Handler {
	return s.withRateLimit(s.withLogging(s.withCORS(s.withAuth(s.routes()))))
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Whole state
	mux.HandleFunc("GET /state", s.handleGetState)
	mux.HandleFunc("PUT /state/resume", s.handleSetResume)
	mux.HandleFunc("POST /state/reset", s.handleReset)
	mux.HandleFunc("DELETE /state", s.handleClear)
	mux.HandleFunc("PATCH /state/basics", s.handleUpdateBasics)
	mux.HandleFunc("PATCH /state/settings", s.handleUpdateSettings)

	// Custom fields
	mux.HandleFunc("POST /state/basics/custom-fields", addHandler(s, cleanCustomFieldPatch, s.editor.AddCustomField))
	mux.HandleFunc("PATCH /state/basics/custom-fields/{id}", updateHandler(s, "custom field", cleanCustomFieldPatch, s.editor.UpdateCustomField))
	mux.HandleFunc("DELETE /state/basics/custom-fields/{id}", deleteHandler(s, "custom field", s.editor.DeleteCustomField))

	// Fixed sections
	mux.HandleFunc("POST /state/work", addHandler(s, cleanWorkPatch, s.editor.AddWork))
	mux.HandleFunc("PUT /state/work/order", s.handleReorderWork)
	mux.HandleFunc("PATCH /state/work/{id}", updateHandler(s, "work entry", cleanWorkPatch, s.editor.UpdateWork))
	mux.HandleFunc("DELETE /state/work/{id}", deleteHandler(s, "work entry", s.editor.DeleteWork))

	mux.HandleFunc("POST /state/education", addHandler(s, cleanEducationPatch, s.editor.AddEducation))
	mux.HandleFunc("PATCH /state/education/{id}", updateHandler(s, "education entry", cleanEducationPatch, s.editor.UpdateEducation))
	mux.HandleFunc("DELETE /state/education/{id}", deleteHandler(s, "education entry", s.editor.DeleteEducation))

	mux.HandleFunc("POST /state/skills", addHandler(s, cleanSkillPatch, s.editor.AddSkill))
	mux.HandleFunc("PATCH /state/skills/{id}", updateHandler(s, "skill category", cleanSkillPatch, s.editor.UpdateSkill))
	mux.HandleFunc("DELETE /state/skills/{id}", deleteHandler(s, "skill category", s.editor.DeleteSkill))

	mux.HandleFunc("POST /state/projects", addHandler(s, cleanProjectPatch, s.editor.AddProject))
	mux.HandleFunc("PATCH /state/projects/{id}", updateHandler(s, "project", cleanProjectPatch, s.editor.UpdateProject))
	mux.HandleFunc("DELETE /state/projects/{id}", deleteHandler(s, "project", s.editor.DeleteProject))

	mux.HandleFunc("POST /state/certifications", addHandler(s, cleanCertificationPatch, s.editor.AddCertification))
	mux.HandleFunc("PATCH /state/certifications/{id}", updateHandler(s, "certification", cleanCertificationPatch, s.editor.UpdateCertification))
	mux.HandleFunc("DELETE /state/certifications/{id}", deleteHandler(s, "certification", s.editor.DeleteCertification))

	// Custom sections
	mux.HandleFunc("POST /state/custom-sections", s.handleAddCustomSection)
	mux.HandleFunc("PATCH /state/custom-sections/{id}", s.handleUpdateCustomSection)
	mux.HandleFunc("DELETE /state/custom-sections/{id}", deleteHandler(s, "custom section", s.editor.DeleteCustomSection))
	mux.HandleFunc("POST /state/custom-sections/{id}/items", s.handleAddCustomSectionItem)
	mux.HandleFunc("PATCH /state/custom-sections/{id}/items/{item_id}", s.handleUpdateCustomSectionItem)
	mux.HandleFunc("DELETE /state/custom-sections/{id}/items/{item_id}", s.handleDeleteCustomSectionItem)

	// Files
	mux.HandleFunc("POST /export", s.handleExport)
	mux.HandleFunc("GET /export", s.handleExportCurrent)
	mux.HandleFunc("POST /import", s.handleImport)
	mux.HandleFunc("POST /extract", s.handleExtract)

	// Live preview
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("GET /preview/status", s.handlePreviewStatus)
	mux.HandleFunc("GET /preview/events", s.handlePreviewEvents)
	return mux
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Server starting on %s", ln.Addr())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Println("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		s.events.close()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	err := g.Wait()
	s.rateLimiter.Stop()
	log.Println("Server stopped")
	return err
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Preview-Generation")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withAuth requires a Bearer token on state-changing requests when a JWT
// secret is configured.
func (s *Server) withAuth(next http.Handler) http.Handler {
	if s.jwtService == nil {
		return next
	}
	return middleware.AuthMiddleware(s.jwtService.AsTokenValidator(), middleware.Skip(middleware.SafeMethods))(next)
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[%s] %s %d in %v", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

// statusRecorder remembers the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Flush lets streaming handlers see through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// writeError maps err to a status and writes it. Internal errors are logged
// and reported without detail.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusServiceUnavailable {
		log.Printf("[server] internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"tier":      info.Tier,
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds()) + 1
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Tier=%s Limit=%d Reset=%s",
		info.Tier, info.Limit, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
