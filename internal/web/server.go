// BYZRA ⸻ internal/web/server.go
// local browser page for viewing and stripping metadata

// Package web serves the drop page. Each browser gets its own session
// controller, identified by a signed cookie; a load, export or reset in one
// browser never touches another's image.
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"

	"exifdrop/internal/config"
	"exifdrop/internal/daemon"
	"exifdrop/internal/export"
	"exifdrop/internal/formats"
	"exifdrop/internal/present"
	"exifdrop/internal/session"
	"exifdrop/internal/util"
)

// sessions kept before the least recently used is dropped
const maxSessions = 256

type Server struct {
	cfg      *config.Config
	labels   map[string]string
	logger   session.Logger
	sessions *store
	maxBytes int64
	handler  http.Handler
}

// NewServer builds the handler tree; labels may be nil.
func NewServer(cfg *config.Config, labels map[string]string, logger session.Logger) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = daemon.NewStreamLogger(io.Discard, daemon.LevelError)
	}
	s := &Server{
		cfg:      cfg,
		labels:   labels,
		logger:   logger,
		maxBytes: cfg.Server.MaxUploadMB << 20,
	}

	presenter := present.NewPresenter(labels)
	exportOpt := export.Options{Quality: cfg.Export.Quality, AutoOrient: cfg.Export.AutoOrient}
	sessions, err := newStore(maxSessions, cfg.Server.SessionIdle.Duration, func() *session.Controller {
		return session.New(session.Options{Presenter: presenter, Export: exportOpt, Logger: logger})
	}, logger)
	if err != nil {
		return nil, err
	}
	s.sessions = sessions

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /load", s.handleLoad)
	mux.HandleFunc("GET /preview", s.handlePreview)
	mux.HandleFunc("GET /download/original", s.handleOriginal)
	mux.HandleFunc("POST /download/stripped", s.handleStripped)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /views.json", s.handleViews)
	mux.HandleFunc("GET /ws", s.handleEvents)

	protect := csrf.Protect(securecookie.GenerateRandomKey(32),
		csrf.Secure(false),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteStrictMode),
		csrf.ErrorHandler(http.HandlerFunc(s.handleForbidden)),
	)
	s.handler = s.logRequests(s.limitBody(protect(mux)))
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves on cfg.Server.Addr until ctx is done, sweeping idle sessions.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.sweepLoop(ctx)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(fmt.Sprintf("Serving on http://%s", ln.Addr()))
	err := srv.Serve(ln)
	s.sessions.purge()
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Info("Server stopped")
		return nil
	}
	return err
}

func (s *Server) sweepLoop(ctx context.Context) {
	interval := s.cfg.Server.SessionIdle.Duration / 2
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sessions.sweep(); n > 0 {
				s.logger.Debug(fmt.Sprintf("Dropped %d idle sessions", n))
			}
		}
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		s.logger.Debug(fmt.Sprintf("%s %s %d %dB %s", r.Method, r.URL.Path, m.Code, m.Written, m.Duration))
	})
}

// oversized uploads are refused before the csrf check parses the form
func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.maxBytes > 0 {
			if r.ContentLength > s.maxBytes {
				s.renderStatus(w, r, http.StatusRequestEntityTooLarge, tooLarge(s.maxBytes))
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)
		}
		next.ServeHTTP(w, r)
	})
}

func tooLarge(limit int64) string {
	return fmt.Sprintf("File is too large (limit %d MB)", limit>>20)
}

func (s *Server) handleForbidden(w http.ResponseWriter, r *http.Request) {
	s.logger.Warning(fmt.Sprintf("[!] Refused %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r)))
	s.renderStatus(w, r, http.StatusForbidden, "Request expired, reload the page and try again")
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, e, "")
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	f, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.render(w, r, http.StatusRequestEntityTooLarge, e, tooLarge(s.maxBytes))
			return
		}
		s.render(w, r, http.StatusBadRequest, e, "No file selected")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, e, "Could not read the file")
		return
	}

	name := util.SanitizeFilename(header.Filename)
	_, err = e.ctrl.Load(name, header.Header.Get("Content-Type"), data)
	var invalid *session.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		s.render(w, r, http.StatusUnsupportedMediaType, e, "Please select an image file: "+invalid.Error())
		return
	case err != nil:
		s.render(w, r, http.StatusInternalServerError, e, err.Error())
		return
	}

	e.notify("loaded")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessions.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	snap, ok := e.ctrl.Current()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", previewType(snap.Image.MIMEType))
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Security-Policy", "sandbox")
	http.ServeContent(w, r, "", time.Time{}, bytes.NewReader(snap.Image.Bytes()))
}

// only types with a registered codec are served inline
func previewType(declared string) string {
	if c, err := formats.GetCodec(declared); err == nil {
		return c.MIMEType
	}
	return "application/octet-stream"
}

func (s *Server) handleOriginal(w http.ResponseWriter, r *http.Request) {
	e, ok := s.sessions.lookup(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	a, err := e.ctrl.ExportOriginal()
	if err != nil {
		http.NotFound(w, r)
		return
	}
	writeArtifact(w, a)
}

func (s *Server) handleStripped(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	a, residue, err := e.ctrl.ExportStripped()
	var ee *export.ExportError
	switch {
	case errors.Is(err, session.ErrNoImage):
		s.render(w, r, http.StatusNotFound, e, "No image loaded")
		return
	case errors.As(err, &ee):
		s.render(w, r, http.StatusUnprocessableEntity, e, "Could not remove metadata: "+ee.Error())
		return
	case err != nil:
		s.render(w, r, http.StatusInternalServerError, e, err.Error())
		return
	}

	if !residue.Clean() {
		w.Header().Set("X-Exifdrop-Residue", strings.Join(residue.Tags, ","))
	}
	writeArtifact(w, a)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if e, ok := s.sessions.lookup(r); ok {
		e.ctrl.Reset()
		e.notify("reset")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type viewsResponse struct {
	Image          *imageInfo    `json:"image,omitempty"`
	ProcessingTime string        `json:"processing_time,omitempty"`
	Views          present.Views `json:"views"`
}

type imageInfo struct {
	Name       string `json:"name"`
	MIMEType   string `json:"mime_type"`
	Size       int64  `json:"size"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Dimensions string `json:"dimensions"`
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	e, err := s.sessions.get(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := viewsResponse{Views: e.ctrl.Views()}
	if snap, ok := e.ctrl.Current(); ok {
		img := snap.Image
		resp.Image = &imageInfo{
			Name:       img.Name,
			MIMEType:   img.MIMEType,
			Size:       img.Size,
			Width:      img.Width,
			Height:     img.Height,
			Dimensions: img.Dimensions(),
		}
		resp.ProcessingTime = snap.ProcessingTime()
		resp.Views = snap.Views
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Warning(fmt.Sprintf("[!] Failed to write views: %v", err))
	}
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, e *entry, notice string) {
	data := pageData{
		CSRF:    csrf.TemplateField(r),
		Token:   csrf.Token(r),
		Notice:  notice,
		Formats: strings.Join(formats.SupportedFormats(), ", "),
	}
	if e != nil {
		data.Views = e.ctrl.Views()
		if snap, ok := e.ctrl.Current(); ok {
			data.Snap = &snap
			data.Views = snap.Views
		}
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		s.logger.Error(fmt.Sprintf("[X] Failed to render page: %v", err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

// renderStatus shows a notice outside any session (before csrf has run).
func (s *Server) renderStatus(w http.ResponseWriter, r *http.Request, status int, notice string) {
	e, _ := s.sessions.lookup(r)
	s.render(w, r, status, e, notice)
}

func writeArtifact(w http.ResponseWriter, a export.Artifact) {
	h := w.Header()
	h.Set("Content-Type", a.MIMEType)
	h.Set("Content-Length", fmt.Sprint(len(a.Data)))
	h.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	h.Set("Cache-Control", "no-store")
	h.Set("X-Content-Type-Options", "nosniff")
	w.Write(a.Data)
}
