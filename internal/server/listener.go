// Package server hosts the TCP transport adapter: an accept loop that gives
// each connection its own escpos.Interpreter, reads raw bytes, feeds them to
// the interpreter, writes back any queued responses, and forwards the
// emitted elements to a sink. It is a dumb pipe — the only ESC/POS knowledge
// it holds is "call Feed and do what it returns."
package server

import (
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"escpos-printer-service/internal/escpos"
)

// Stats mirrors the connection accounting the teacher's protocol package
// tracks for an outbound dialer, adapted here to an inbound listener.
type Stats struct {
	BytesRead      int64
	BytesWritten   int64
	ElementCount   int64
	OperationCount int64
	LastActivity   time.Time
}

// ElementSink receives the element stream a session produces, tagged with
// the session that produced it. Implemented by internal/hub.Hub.
type ElementSink interface {
	Publish(sessionID string, elements []escpos.Element)
}

// AuditSink records connection-level metadata for a session's lifetime.
// Implemented by internal/audit.Store. Optional — a nil AuditSink simply
// skips auditing.
type AuditSink interface {
	RecordOpen(ctx context.Context, sessionID, remoteAddr string, openedAt time.Time) error
	RecordClose(ctx context.Context, sessionID string, bytesRead, bytesWritten, elementCount, operationCount int64, reason string) error
}

// Config controls the listener's network behavior.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// Listener accepts printer connections and runs one Session per connection.
type Listener struct {
	cfg    Config
	sink   ElementSink
	audit  AuditSink
	logger *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Session
}

// New builds a Listener. sink may be nil, in which case elements are
// discarded — useful for a headless ingestion-only deployment.
func New(cfg Config, sink ElementSink, logger *zap.Logger) *Listener {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 4096
	}
	return &Listener{
		cfg:      cfg,
		sink:     sink,
		logger:   logger.With(zap.String("component", "printer-listener")),
		sessions: make(map[string]*Session),
	}
}

// WithAudit attaches an AuditSink to record session open/close events.
func (l *Listener) WithAudit(audit AuditSink) *Listener {
	l.audit = audit
	return l
}

// Serve runs the accept loop until ctx is canceled or the listener socket
// fails. It is intended to run in its own goroutine from cmd/server/main.go.
func (l *Listener) Serve(ctx context.Context) error {
	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", l.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.cfg.Addr, err)
	}
	l.logger.Info("printer listener started", zap.String("addr", l.cfg.Addr))

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				l.logger.Error("accept failed", zap.Error(err))
				return fmt.Errorf("accept: %w", err)
			}
		}
		sess := l.newSession(conn)
		go sess.run(ctx)
	}
}

// Sessions returns a snapshot of currently connected sessions, for the admin
// API's session listing.
func (l *Listener) Sessions() []SessionInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]SessionInfo, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s.Info())
	}
	return out
}

// CloseSession force-closes a connection by session ID, for the admin API.
func (l *Listener) CloseSession(id string) bool {
	l.mu.Lock()
	sess, ok := l.sessions[id]
	l.mu.Unlock()
	if !ok {
		return false
	}
	sess.conn.Close()
	return true
}

func (l *Listener) newSession(conn net.Conn) *Session {
	id := uuid.NewString()
	openedAt := time.Now()
	sess := &Session{
		id:          id,
		conn:        conn,
		interpreter: escpos.New(),
		cfg:         l.cfg,
		logger:      l.logger.With(zap.String("session", id), zap.String("remote", conn.RemoteAddr().String())),
		sink:        l.sink,
		audit:       l.audit,
		openedAt:    openedAt,
		stats:       &Stats{LastActivity: openedAt},
	}
	sess.interpreter.Trace = func(format string, args ...interface{}) {
		sess.logger.Sugar().Debugf(format, args...)
	}

	l.mu.Lock()
	l.sessions[id] = sess
	l.mu.Unlock()

	if l.audit != nil {
		if err := l.audit.RecordOpen(context.Background(), id, conn.RemoteAddr().String(), openedAt); err != nil {
			sess.logger.Warn("failed to record session open", zap.Error(err))
		}
	}

	sess.onClose = func() {
		l.mu.Lock()
		delete(l.sessions, id)
		l.mu.Unlock()
	}

	return sess
}

// SessionInfo is the admin-API-facing snapshot of a connected session.
type SessionInfo struct {
	ID             string    `json:"id"`
	RemoteAddr     string    `json:"remote_addr"`
	BytesRead      int64     `json:"bytes_read"`
	BytesWritten   int64     `json:"bytes_written"`
	ElementCount   int64     `json:"element_count"`
	OperationCount int64     `json:"operation_count"`
	LastActivity   time.Time `json:"last_activity"`
}
