package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/Graylog2/go-gelf/gelf"
)

// SlogManager manages slog-based logging with console, file, and
// optional GELF output. Every record carries the attributes of the
// installed context provider, so log lines can be correlated with the
// plan revision they were emitted under.
type SlogManager struct {
	logger *slog.Logger

	mu       sync.RWMutex
	provider ContextProvider
}

// NewSlogManager creates a new slog-based logging manager.
func NewSlogManager() *SlogManager {
	return &SlogManager{}
}

// parseLevel converts a string log level to slog.Level.
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetContextProvider installs the provider whose attributes are added
// to every record. May be called before or after Setup; a nil provider
// clears it.
func (m *SlogManager) SetContextProvider(p ContextProvider) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.provider = p
}

// contextAttrs is the provider hook handed to the ContextHandler. It
// survives Setup being called again.
func (m *SlogManager) contextAttrs() []slog.Attr {
	m.mu.RLock()
	p := m.provider
	m.mu.RUnlock()
	if p == nil {
		return nil
	}
	return p()
}

// Setup initializes the logging system with console, optional file, and
// optional GELF output. An empty gelfAddr disables the GELF handler; a
// failed GELF connection is logged and skipped rather than fatal.
func (m *SlogManager) Setup(file io.Writer, level string, gelfAddr string) {
	lvl := parseLevel(level)

	// Common handler options with RFC3339 time formatting
	handlerOpts := &slog.HandlerOptions{
		Level: lvl,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	// Build list of handlers
	var handlers []slog.Handler

	// Console handler
	handlers = append(handlers, slog.NewTextHandler(os.Stdout, handlerOpts))

	// File handler
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, handlerOpts))
	}

	// GELF handler
	var gelfErr error
	if gelfAddr != "" {
		w, err := gelf.NewWriter(gelfAddr)
		if err != nil {
			gelfErr = err
		} else {
			handlers = append(handlers, slog.NewJSONHandler(w, handlerOpts))
		}
	}

	// Fan out to all handlers, with planning context on every record
	root := NewContextHandler(NewMultiHandler(handlers...), m.contextAttrs)

	m.logger = slog.New(root)
	m.logger.Info("Logging initialized", "level", level)
	if gelfErr != nil {
		m.logger.Warn("GELF output disabled", "address", gelfAddr, "error", gelfErr)
	}
}

// Logger returns the configured slog.Logger.
func (m *SlogManager) Logger() *slog.Logger {
	if m.logger == nil {
		// Return a default logger if Setup hasn't been called
		return slog.Default()
	}
	return m.logger
}

// WriteLog writes a log entry with the specified component name, data,
// and level.
func (m *SlogManager) WriteLog(component, data, level string) {
	if m.logger == nil {
		return
	}

	lvl := parseLevel(level)

	switch lvl {
	case slog.LevelDebug:
		m.logger.Debug(data, "component", component)
	case slog.LevelInfo:
		m.logger.Info(data, "component", component)
	case slog.LevelWarn:
		m.logger.Warn(data, "component", component)
	case slog.LevelError:
		m.logger.Error(data, "component", component)
	default:
		m.logger.Info(data, "component", component)
	}
}
