package live

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/util"
	"github.com/vango-dev/vbind/pkg/render"
	"github.com/vango-dev/vbind/pkg/vdom"
)

// isFormControl lists elements whose value the client reports.
var isFormControl = util.MakeMap("input,textarea,select", false)

// Session is one connected browser with its own view-model.
type Session struct {
	id       string
	server   *Server
	conn     *websocket.Conn
	vm       *vbind.VM
	renderer *render.Renderer
	logger   *slog.Logger

	// seen counts diagnostics per code already exported as metrics.
	seen map[string]int

	writeMu   sync.Mutex
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(s *Server, conn *websocket.Conn, vm *vbind.VM) *Session {
	id := rand.Text()
	return &Session{
		id:       id,
		server:   s,
		conn:     conn,
		vm:       vm,
		renderer: s.newRenderer(),
		logger:   s.logger.With("session", id),
		seen:     make(map[string]int),
		done:     make(chan struct{}),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// VM returns the session's view-model.
func (s *Session) VM() *vbind.VM {
	return s.vm
}

// run sends the first render and processes messages until the connection
// closes. It blocks.
func (s *Session) run() {
	defer func() {
		s.Close()
		s.vm.Destroy()
	}()

	s.exportDiagnostics()
	if err := s.sendRender(); err != nil {
		s.logger.Error("initial render failed", "error", err)
		return
	}
	go s.heartbeat()
	s.readLoop()
}

// readLoop reads and handles client messages in order. Events are handled
// on this goroutine, so the view-model is never used concurrently.
func (s *Session) readLoop() {
	cfg := s.server.config
	s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))
	})

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				s.server.metrics.wsErrors.WithLabelValues("read").Inc()
				s.logger.Error("read error", "error", err)
			}
			return
		}
		s.conn.SetReadDeadline(time.Now().Add(cfg.ReadTimeout))

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.protocolError(errors.New(errors.CodeProtocol).WithDetail("message is not valid JSON").Wrap(err))
			continue
		}
		if msg.Type != TypeEvent {
			s.protocolError(errors.New(errors.CodeProtocol).WithDetailf("unknown message type %q", msg.Type))
			continue
		}
		s.handleEvent(context.Background(), msg)
	}
}

// handleEvent dispatches one client event and replies with a render.
func (s *Session) handleEvent(ctx context.Context, msg ClientMessage) {
	start := time.Now()
	m := s.server.metrics
	label := s.eventLabel(msg)

	_, span := s.server.tracer.Start(ctx, "vbind.event", trace.WithAttributes(
		attribute.String("vbind.session", s.id),
		attribute.String("vbind.event", msg.Event),
		attribute.String("vbind.hid", msg.HID),
	))
	defer span.End()

	if err := s.dispatch(msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.eventsTotal.WithLabelValues(label, "error").Inc()
		s.protocolError(err)
		return
	}
	s.exportDiagnostics()

	if err := s.sendRender(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.eventsTotal.WithLabelValues(label, "error").Inc()
		s.logger.Error("render failed", "error", err)
		return
	}
	m.eventsTotal.WithLabelValues(label, "ok").Inc()
	m.eventDuration.WithLabelValues(label).Observe(time.Since(start).Seconds())
}

// otherEventLabel is the metric label for event types no element listens for.
const otherEventLabel = "other"

// eventLabel bounds metric cardinality: only event types the targeted
// element has a listener for are used as labels.
func (s *Session) eventLabel(msg ClientMessage) string {
	if msg.Event == "" {
		return otherEventLabel
	}
	el := s.vm.Document().ElementByHID(msg.HID)
	if el == nil || el.ListenerCount(msg.Event) == 0 {
		return otherEventLabel
	}
	return msg.Event
}

// dispatch applies a reported form value and delivers the event to the
// element the client named.
func (s *Session) dispatch(msg ClientMessage) *errors.Error {
	if msg.Event == "" {
		return errors.New(errors.CodeProtocol).WithDetail("event message without an event type")
	}
	el := s.vm.Document().ElementByHID(msg.HID)
	if el == nil {
		return errors.New(errors.CodeUnknownTarget).WithDetailf("no element with hydration ID %q", msg.HID)
	}
	if msg.Value != nil && isFormControl(el.Tag()) {
		el.SetValue(*msg.Value)
	}
	s.logger.Debug("dispatch", "event", msg.Event, "hid", msg.HID)
	el.DispatchEvent(vdom.NewEvent(msg.Event))
	return nil
}

// exportDiagnostics counts diagnostics that appeared since the last call.
func (s *Session) exportDiagnostics() {
	counts := make(map[string]int)
	for _, d := range s.vm.Diagnostics() {
		counts[d.Code]++
	}
	for code, n := range counts {
		if n > s.seen[code] {
			s.server.metrics.diagnostics.WithLabelValues(code).Add(float64(n - s.seen[code]))
			s.seen[code] = n
		}
	}
}

// RenderBody renders the children of the document body with hydration IDs.
func (s *Session) RenderBody() (string, error) {
	var buf bytes.Buffer
	for _, child := range s.vm.Document().Body().ChildNodes() {
		if err := s.renderer.RenderToWriter(&buf, child); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (s *Session) sendRender() error {
	html, err := s.RenderBody()
	if err != nil {
		return err
	}
	if err := s.write(ServerMessage{Type: TypeRender, HTML: html}); err != nil {
		return err
	}
	s.server.metrics.rendersTotal.Inc()
	return nil
}

func (s *Session) protocolError(err *errors.Error) {
	s.server.metrics.wsErrors.WithLabelValues("protocol").Inc()
	s.logger.Warn(err.Message, "code", err.Code, "detail", err.Detail)
	if werr := s.write(ServerMessage{Type: TypeError, Code: err.Code, Message: err.Error()}); werr != nil {
		s.logger.Debug("error reply failed", "error", werr)
	}
}

func (s *Session) write(msg ServerMessage) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.server.config.WriteTimeout))
	return s.conn.WriteJSON(msg)
}

// heartbeat pings the client until the session closes.
func (s *Session) heartbeat() {
	ticker := time.NewTicker(s.server.config.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(s.server.config.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				s.logger.Debug("ping failed", "error", err)
				return
			}
		case <-s.done:
			return
		}
	}
}

// Close ends the session. The view-model is torn down once the read loop
// has stopped. Close is safe to call more than once and from any goroutine.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.conn.Close()
		s.server.removeSession(s.id)
		s.logger.Info("session closed")
	})
}
