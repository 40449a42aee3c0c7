package live

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/vbind"
	"github.com/vango-dev/vbind/pkg/compile"
)

// Config configures the live server.
type Config struct {
	// Template is the HTML document every session compiles.
	Template string

	// Data is the initial store of every session. Sessions never write
	// into it.
	Data map[string]any

	// El selects the root element; empty means the body.
	El string

	// Methods are the event handler targets.
	// If nil, vbind.StdMethods() is used.
	Methods map[string]vbind.Method

	// Directives registers additional v-* directives.
	Directives map[string]compile.Directive

	// Title replaces the document title when non-empty.
	Title string

	// MaxUpdateDepth bounds nested notification passes.
	// Default: 100.
	MaxUpdateDepth int

	// Logger is the structured logger.
	// If nil, slog.Default() is used.
	Logger *slog.Logger

	// Registry receives the server metrics and backs /metrics.
	// If nil, a fresh registry is created.
	Registry *prometheus.Registry

	// Tracer traces compiles and event dispatches.
	// If nil, the global OpenTelemetry tracer named "vbind" is used.
	Tracer trace.Tracer

	// ReadTimeout is how long a session may stay silent before it is
	// closed. Pongs count as activity.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout bounds each write to the client.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the ping period.
	// Default: 25 seconds.
	HeartbeatInterval time.Duration

	// CheckOrigin validates the Origin header of WebSocket upgrades.
	// If nil, same-origin requests are accepted.
	CheckOrigin func(r *http.Request) bool
}

// DefaultConfig returns a Config with the default timeouts.
func DefaultConfig() Config {
	return Config{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 25 * time.Second,
	}
}

// withDefaults fills in zero-valued fields.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = d.ReadTimeout
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	if c.HeartbeatInterval <= 0 {
		c.HeartbeatInterval = d.HeartbeatInterval
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Methods == nil {
		c.Methods = vbind.StdMethods()
	}
	if c.Registry == nil {
		c.Registry = prometheus.NewRegistry()
	}
	return c
}
