package server

import (
	"context"
	"io"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"escpos-printer-service/internal/escpos"
)

// Session owns one accepted connection and its *escpos.Interpreter. It
// reads into a fixed buffer, calls Feed, writes the returned responses back
// before the next read (preserving request/response pairing per spec.md
// §5's ordering guarantee), and forwards elements to the sink. Grounded on
// the teacher's TCPConnection Read/Write idiom, generalized from an
// outbound dialer to an inbound per-connection handler.
type Session struct {
	id          string
	conn        net.Conn
	interpreter *escpos.Interpreter
	cfg         Config
	logger      *zap.Logger
	sink        ElementSink
	audit       AuditSink
	openedAt    time.Time
	onClose     func()

	mu    sync.Mutex
	stats *Stats
}

func (s *Session) run(ctx context.Context) {
	defer s.close()

	s.logger.Info("session opened")
	buf := make([]byte, s.cfg.BufferSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if s.cfg.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.cfg.ReadTimeout))
		}

		n, err := s.conn.Read(buf)
		if n > 0 {
			s.feed(buf[:n])
		}
		if err != nil {
			if err != io.EOF {
				s.logger.Debug("session read ended", zap.Error(err))
			}
			return
		}
	}
}

func (s *Session) feed(chunk []byte) {
	s.mu.Lock()
	s.stats.BytesRead += int64(len(chunk))
	s.stats.LastActivity = time.Now()
	s.mu.Unlock()

	elements, responses := s.interpreter.Feed(chunk)

	if len(responses) > 0 {
		if s.cfg.WriteTimeout > 0 {
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
		}
		if n, err := s.conn.Write(responses); err != nil {
			s.logger.Warn("failed writing reverse-channel response", zap.Error(err))
		} else {
			s.mu.Lock()
			s.stats.BytesWritten += int64(n)
			s.mu.Unlock()
		}
	}

	if len(elements) > 0 {
		s.mu.Lock()
		s.stats.ElementCount += int64(len(elements))
		s.stats.OperationCount++
		s.mu.Unlock()
		if s.sink != nil {
			s.sink.Publish(s.id, elements)
		}
	}
}

func (s *Session) close() {
	s.conn.Close()

	if s.audit != nil {
		s.mu.Lock()
		bytesRead, bytesWritten := s.stats.BytesRead, s.stats.BytesWritten
		elementCount, operationCount := s.stats.ElementCount, s.stats.OperationCount
		s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.audit.RecordClose(ctx, s.id, bytesRead, bytesWritten, elementCount, operationCount, "closed"); err != nil {
			s.logger.Warn("failed to record session close", zap.Error(err))
		}
		cancel()
	}

	if s.onClose != nil {
		s.onClose()
	}
	s.logger.Info("session closed")
}

// Info returns a JSON-serializable snapshot for the admin API.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:             s.id,
		RemoteAddr:     s.conn.RemoteAddr().String(),
		BytesRead:      s.stats.BytesRead,
		BytesWritten:   s.stats.BytesWritten,
		ElementCount:   s.stats.ElementCount,
		OperationCount: s.stats.OperationCount,
		LastActivity:   s.stats.LastActivity,
	}
}
