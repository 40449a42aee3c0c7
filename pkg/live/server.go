package live

import (
	"bytes"
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

const tracerName = "vbind"

// Server serves one template to any number of live sessions.
type Server struct {
	config   Config
	logger   *slog.Logger
	router   chi.Router
	upgrader websocket.Upgrader
	metrics  *metrics
	tracer   trace.Tracer

	mu       sync.Mutex
	sessions map[string]*Session

	srcMu    sync.RWMutex
	template string
	data     map[string]any
}

// New creates a server. The template is compiled once up front so that
// configuration faults are returned here rather than per request.
func New(config Config) (*Server, error) {
	config = config.withDefaults()

	s := &Server{
		config: config,
		logger: config.Logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		metrics:  newMetrics(config.Registry),
		tracer:   config.Tracer,
		sessions: make(map[string]*Session),
		template: config.Template,
		data:     config.Data,
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}

	vm, err := s.newView(context.Background())
	if err != nil {
		return nil, err
	}
	vm.Destroy()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(config.Registry, promhttp.HandlerOpts{}))
	s.router = r

	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully and closes every session.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeSessions()
	s.logger.Info("server stopped")
	return err
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Reload replaces the template and data of future sessions and tells
// every open page to reload. A template that fails to compile is
// rejected and the current one stays in place.
func (s *Server) Reload(ctx context.Context, template string, data map[string]any) error {
	vm, err := s.compileView(ctx, template, data)
	if err != nil {
		s.logger.Warn("reload rejected", "error", err)
		return err
	}
	vm.Destroy()

	s.srcMu.Lock()
	s.template, s.data = template, data
	s.srcMu.Unlock()
	s.metrics.reloadsTotal.Inc()

	s.mu.Lock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.Unlock()

	for _, sess := range list {
		if err := sess.write(ServerMessage{Type: TypeReload}); err != nil {
			s.logger.Debug("reload notify failed", "session", sess.id, "error", err)
		}
	}
	s.logger.Info("reloaded", "sessions", len(list))
	return nil
}

// newView compiles a fresh view-model from the current template.
func (s *Server) newView(ctx context.Context) (*vbind.VM, error) {
	s.srcMu.RLock()
	template, data := s.template, s.data
	s.srcMu.RUnlock()
	return s.compileView(ctx, template, data)
}

func (s *Server) compileView(ctx context.Context, template string, data map[string]any) (*vbind.VM, error) {
	_, span := s.tracer.Start(ctx, "vbind.compile")
	defer span.End()

	doc, err := vdom.ParseString(template)
	if err != nil {
		err = errors.New(errors.CodeSourceDecode).WithDetail("template is not valid HTML").Wrap(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var el any
	if s.config.El != "" {
		el = s.config.El
	}
	vm, err := vbind.New(vbind.Options{
		El:             el,
		Document:       doc,
		Data:           data,
		Methods:        s.config.Methods,
		Directives:     s.config.Directives,
		Logger:         s.config.Logger,
		MaxUpdateDepth: s.config.MaxUpdateDepth,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("vbind.diagnostics", len(vm.Diagnostics())))
	return vm, nil
}

func (s *Server) newRenderer() *render.Renderer {
	return render.NewRenderer(render.RendererConfig{
		HydrationIDs:     true,
		ReflectValues:    true,
		OmitAttrPrefixes: []string{"v-", "@"},
	})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	vm, err := s.newView(r.Context())
	if err != nil {
		s.logger.Error("compile failed", "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	defer vm.Destroy()

	var buf bytes.Buffer
	err = s.newRenderer().RenderPage(&buf, render.PageData{
		Document: vm.Document(),
		Title:    s.config.Title,
		Scripts:  []string{clientScript},
	})
	if err != nil {
		s.logger.Error("render failed", "error", err)
		http.Error(w, "render error", http.StatusInternalServerError)
		return
	}
	s.metrics.rendersTotal.Inc()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		s.metrics.wsErrors.WithLabelValues("upgrade").Inc()
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	vm, err := s.newView(r.Context())
	if err != nil {
		s.logger.Error("compile failed", "error", err)
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "template error"))
		conn.Close()
		return
	}

	sess := newSession(s, conn, vm)
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.metrics.sessionsTotal.Inc()
	s.metrics.activeSessions.Inc()
	s.logger.Info("session started", "session", sess.id, "remote", r.RemoteAddr)

	sess.run()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}

func (s *Server) removeSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; ok {
		delete(s.sessions, id)
		s.metrics.activeSessions.Dec()
	}
}

func (s *Server) closeSessions() {
	s.mu.Lock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	s.mu.Unlock()

	for _, sess := range list {
		sess.Close()
	}
}
