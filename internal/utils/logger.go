// internal/utils/logger.go
package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"escpos-printer-service/internal/config"
)

// LoggerManager manages application logging
type LoggerManager struct {
	logger *zap.Logger
	config *config.LoggingConfig
}

// NewLogger creates a new logger instance based on configuration
func NewLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	manager := &LoggerManager{
		config: cfg,
	}

	logger, err := manager.createLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	manager.logger = logger
	return logger, nil
}

// createLogger creates the zap logger with proper configuration
func (lm *LoggerManager) createLogger() (*zap.Logger, error) {
	encoderConfig := lm.getEncoderConfig()

	var encoder zapcore.Encoder
	switch lm.config.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	writeSyncer, err := lm.getWriteSyncer()
	if err != nil {
		return nil, fmt.Errorf("failed to create write syncer: %w", err)
	}

	level, err := lm.getLogLevel()
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level: %w", err)
	}

	core := zapcore.NewCore(encoder, writeSyncer, level)
	logger := zap.New(core, lm.getLoggerOptions()...)

	return logger, nil
}

// getEncoderConfig returns encoder configuration based on format
func (lm *LoggerManager) getEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()

	config.TimeKey = "timestamp"
	config.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)

	config.LevelKey = "level"
	config.EncodeLevel = zapcore.LowercaseLevelEncoder

	config.CallerKey = "caller"
	config.EncodeCaller = zapcore.ShortCallerEncoder

	config.MessageKey = "message"
	config.StacktraceKey = "stacktrace"

	if lm.config.Format == "console" {
		config.EncodeLevel = zapcore.CapitalColorLevelEncoder
		config.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05")
	}

	return config
}

// getWriteSyncer returns write syncer based on output configuration
func (lm *LoggerManager) getWriteSyncer() (zapcore.WriteSyncer, error) {
	switch lm.config.Output {
	case "stdout":
		return zapcore.AddSync(os.Stdout), nil
	case "stderr":
		return zapcore.AddSync(os.Stderr), nil
	default:
		if lm.config.Output == "" {
			lm.config.Output = "./logs/escpos-printer-service.log"
		}

		logDir := filepath.Dir(lm.config.Output)
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		lumber := &lumberjack.Logger{
			Filename:   lm.config.Output,
			MaxSize:    lm.config.MaxSize,
			MaxBackups: lm.config.MaxBackups,
			MaxAge:     lm.config.MaxAge,
			Compress:   lm.config.Compress,
		}

		return zapcore.AddSync(lumber), nil
	}
}

// getLogLevel parses and returns log level
func (lm *LoggerManager) getLogLevel() (zapcore.Level, error) {
	switch lm.config.Level {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "fatal":
		return zapcore.FatalLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s", lm.config.Level)
	}
}

// getLoggerOptions returns logger options
func (lm *LoggerManager) getLoggerOptions() []zap.Option {
	options := []zap.Option{
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	}

	options = append(options, zap.AddStacktrace(zapcore.ErrorLevel))

	return options
}

// SessionLogger wraps zap.Logger with per-connection context: the session
// ID and remote address. Byte/element counts are passed per call to
// LogFeed; the logger keeps no running tally. Grounded on the
// teacher's DeviceLogger, generalized from a hardware device identity to a
// TCP printer session identity.
type SessionLogger struct {
	*zap.Logger
	sessionID  string
	remoteAddr string
}

// NewSessionLogger creates a session-specific logger.
func NewSessionLogger(baseLogger *zap.Logger, sessionID, remoteAddr string) *SessionLogger {
	logger := baseLogger.With(
		zap.String("session_id", sessionID),
		zap.String("remote_addr", remoteAddr),
		zap.String("component", "session"),
	)

	return &SessionLogger{
		Logger:     logger,
		sessionID:  sessionID,
		remoteAddr: remoteAddr,
	}
}

// LogFeed logs one Feed() call's outcome.
func (sl *SessionLogger) LogFeed(bytesIn int, elementCount int, responseBytes int, duration time.Duration) {
	sl.Debug("chunk fed to interpreter",
		zap.Int("bytes_in", bytesIn),
		zap.Int("elements_emitted", elementCount),
		zap.Int("response_bytes", responseBytes),
		zap.Duration("duration", duration),
	)
}

// LogConnection logs connection lifecycle events.
func (sl *SessionLogger) LogConnection(action string, err error) {
	fields := []zap.Field{
		zap.String("action", action),
	}

	if err != nil {
		fields = append(fields, zap.Error(err))
		sl.Warn("session connection event", fields...)
	} else {
		sl.Info("session connection event", fields...)
	}
}

// OperationLogger provides structured logging for a single printer-level
// operation (e.g. a raster decode or a QR assembly) within a session.
type OperationLogger struct {
	logger      *zap.Logger
	operationID string
	startTime   time.Time
}

// NewOperationLogger creates an operation-specific logger
func NewOperationLogger(baseLogger *zap.Logger, operationType, operationID string) *OperationLogger {
	logger := baseLogger.With(
		zap.String("operation_type", operationType),
		zap.String("operation_id", operationID),
		zap.String("component", "operation"),
	)

	return &OperationLogger{
		logger:      logger,
		operationID: operationID,
		startTime:   time.Now(),
	}
}

// Start logs operation start
func (ol *OperationLogger) Start(fields ...zap.Field) {
	allFields := append([]zap.Field{
		zap.Time("start_time", ol.startTime),
	}, fields...)

	ol.logger.Info("operation started", allFields...)
}

// Success logs successful operation completion
func (ol *OperationLogger) Success(fields ...zap.Field) {
	duration := time.Since(ol.startTime)
	allFields := append([]zap.Field{
		zap.Duration("duration", duration),
		zap.Bool("success", true),
	}, fields...)

	ol.logger.Info("operation completed successfully", allFields...)
}

// Error logs operation failure
func (ol *OperationLogger) Error(err error, fields ...zap.Field) {
	duration := time.Since(ol.startTime)
	allFields := append([]zap.Field{
		zap.Duration("duration", duration),
		zap.Bool("success", false),
		zap.Error(err),
	}, fields...)

	ol.logger.Error("operation failed", allFields...)
}

// ServiceLogger provides service-level logging functionality
type ServiceLogger struct {
	*zap.Logger
	serviceName string
}

// NewServiceLogger creates a service-specific logger
func NewServiceLogger(baseLogger *zap.Logger, serviceName string) *ServiceLogger {
	logger := baseLogger.With(
		zap.String("service", serviceName),
		zap.String("component", "service"),
	)

	return &ServiceLogger{
		Logger:      logger,
		serviceName: serviceName,
	}
}

// LogServiceStart logs service startup
func (sl *ServiceLogger) LogServiceStart(version string, config interface{}) {
	sl.Info("service starting",
		zap.String("version", version),
		zap.Any("config", config),
	)
}

// LogServiceStop logs service shutdown
func (sl *ServiceLogger) LogServiceStop(reason string) {
	sl.Info("service stopping",
		zap.String("reason", reason),
	)
}

// LogAPIRequest logs HTTP API requests
func (sl *ServiceLogger) LogAPIRequest(method, path, userAgent, clientIP string, statusCode int, duration time.Duration) {
	level := zapcore.InfoLevel
	if statusCode >= 400 {
		level = zapcore.WarnLevel
	}
	if statusCode >= 500 {
		level = zapcore.ErrorLevel
	}

	if ce := sl.Check(level, "API request"); ce != nil {
		ce.Write(
			zap.String("method", method),
			zap.String("path", path),
			zap.String("user_agent", userAgent),
			zap.String("client_ip", clientIP),
			zap.Int("status_code", statusCode),
			zap.Duration("duration", duration),
		)
	}
}

// AuditLogger provides audit logging functionality for connection-level
// events only — per SPEC_FULL.md §10b, receipt content is never audited.
type AuditLogger struct {
	logger *zap.Logger
}

// NewAuditLogger creates an audit-specific logger
func NewAuditLogger(baseLogger *zap.Logger) *AuditLogger {
	logger := baseLogger.With(
		zap.String("component", "audit"),
	)

	return &AuditLogger{
		logger: logger,
	}
}

// LogSessionOpened logs a new printer connection.
func (al *AuditLogger) LogSessionOpened(sessionID, remoteAddr string) {
	al.logger.Info("session opened",
		zap.String("session_id", sessionID),
		zap.String("remote_addr", remoteAddr),
		zap.String("action", "session_open"),
	)
}

// LogSessionClosed logs a printer connection closing, with its final tally.
func (al *AuditLogger) LogSessionClosed(sessionID string, bytesRead, bytesWritten, elementCount int64, duration time.Duration) {
	al.logger.Info("session closed",
		zap.String("session_id", sessionID),
		zap.Int64("bytes_read", bytesRead),
		zap.Int64("bytes_written", bytesWritten),
		zap.Int64("element_count", elementCount),
		zap.Duration("duration", duration),
		zap.String("action", "session_close"),
	)
}

// LogForceClose logs an admin-initiated session termination.
func (al *AuditLogger) LogForceClose(sessionID, adminUser string) {
	al.logger.Warn("session force-closed",
		zap.String("session_id", sessionID),
		zap.String("admin_user", adminUser),
		zap.String("action", "force_close"),
	)
}

// Helper functions for common logging patterns

// LoggerWithRequestID adds request ID to logger
func LoggerWithRequestID(logger *zap.Logger, requestID string) *zap.Logger {
	return logger.With(zap.String("request_id", requestID))
}

// LoggerWithSessionID adds session ID to logger
func LoggerWithSessionID(logger *zap.Logger, sessionID string) *zap.Logger {
	return logger.With(zap.String("session_id", sessionID))
}

// LogError is a helper function for consistent error logging
func LogError(logger *zap.Logger, message string, err error, fields ...zap.Field) {
	allFields := append([]zap.Field{zap.Error(err)}, fields...)
	logger.Error(message, allFields...)
}

// LogPanic logs and recovers from panics
func LogPanic(logger *zap.Logger) {
	if r := recover(); r != nil {
		logger.Fatal("application panic",
			zap.Any("panic", r),
			zap.Stack("stacktrace"),
		)
	}
}

// CloseLogger flushes buffered log entries.
func CloseLogger(logger *zap.Logger) error {
	return logger.Sync()
}
