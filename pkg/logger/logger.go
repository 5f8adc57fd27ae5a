package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger wraps slog.Logger with additional functionality
type Logger struct {
	*slog.Logger
}

// New creates a new logger instance
func New() *Logger {
	level := getLogLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Text handler for development, JSON for production
	var handler slog.Handler
	if gin.Mode() == gin.DebugMode {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return &Logger{
		Logger: slog.New(handler),
	}
}

// getLogLevel converts string to slog.Level
func getLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithSessionID adds checkout session ID to logger context
func (l *Logger) WithSessionID(sessionID string) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("session_id", sessionID)),
	}
}

// WithError adds error to logger context
func (l *Logger) WithError(err error) *Logger {
	return &Logger{
		Logger: l.Logger.With(slog.String("error", err.Error())),
	}
}

// HTTP logging methods

// LogHTTPRequest logs an HTTP request
func (l *Logger) LogHTTPRequest(c *gin.Context, duration time.Duration) {
	l.Logger.InfoContext(c.Request.Context(),
		"HTTP Request",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("query", c.Request.URL.RawQuery),
		slog.Int("status", c.Writer.Status()),
		slog.Duration("duration", duration),
		slog.String("ip", c.ClientIP()),
		slog.Int("size", c.Writer.Size()),
	)
}

// LogHTTPError logs an HTTP error
func (l *Logger) LogHTTPError(c *gin.Context, err error, statusCode int) {
	l.Logger.ErrorContext(c.Request.Context(),
		"HTTP Error",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", statusCode),
		slog.String("error", err.Error()),
		slog.String("ip", c.ClientIP()),
	)
}

// Checkout flow logging methods

// LogCheckoutOpened logs when a checkout session is opened
func (l *Logger) LogCheckoutOpened(ctx context.Context, sessionID, hotelID string, authenticated bool) {
	l.Logger.InfoContext(ctx,
		"Checkout Opened",
		slog.String("session_id", sessionID),
		slog.String("hotel_id", hotelID),
		slog.Bool("authenticated", authenticated),
	)
}

// LogStepChanged logs a checkout wizard transition
func (l *Logger) LogStepChanged(ctx context.Context, sessionID string, from, to int) {
	l.Logger.InfoContext(ctx,
		"Checkout Step Changed",
		slog.String("session_id", sessionID),
		slog.Int("from", from),
		slog.Int("to", to),
	)
}

// LogAvailabilityEvaluated logs an availability classification
func (l *Logger) LogAvailabilityEvaluated(ctx context.Context, sessionID, outcome string, rooms int, seq uint64) {
	l.Logger.DebugContext(ctx,
		"Availability Evaluated",
		slog.String("session_id", sessionID),
		slog.String("outcome", outcome),
		slog.Int("available_rooms", rooms),
		slog.Uint64("sequence", seq),
	)
}

// LogPaymentProcessed logs a payment attempt outcome
func (l *Logger) LogPaymentProcessed(ctx context.Context, sessionID, method string, amount float64, err error) {
	if err != nil {
		l.Logger.ErrorContext(ctx,
			"Payment Failed",
			slog.String("session_id", sessionID),
			slog.String("method", method),
			slog.Float64("amount", amount),
			slog.String("error", err.Error()),
		)
		return
	}
	l.Logger.InfoContext(ctx,
		"Payment Processed",
		slog.String("session_id", sessionID),
		slog.String("method", method),
		slog.Float64("amount", amount),
	)
}

// LogBookingConfirmed logs when a booking confirmation is produced
func (l *Logger) LogBookingConfirmed(ctx context.Context, bookingRef, sessionID, hotelID string) {
	l.Logger.InfoContext(ctx,
		"Booking Confirmed",
		slog.String("booking_ref", bookingRef),
		slog.String("session_id", sessionID),
		slog.String("hotel_id", hotelID),
	)
}

// Global logger instance (can be replaced with dependency injection)
var defaultLogger = New()

// GetDefault returns the default logger instance
func GetDefault() *Logger {
	return defaultLogger
}

// SetDefault sets the default logger instance
func SetDefault(logger *Logger) {
	defaultLogger = logger
}
