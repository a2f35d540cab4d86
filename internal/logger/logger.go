// Package logger is the process-wide structured logger. Messages carry the
// trace and span ids of the context they are logged under, and
// StartOperation pairs a span with a timed log line.
//
// Until Init is called every function is a no-op, so library code and tests
// may log freely.
package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const serviceName = "tradejournal"

var (
	base           = zap.NewNop()
	sugar          = base.Sugar()
	tracingEnabled bool
	tracer         trace.Tracer
	tracerProvider *sdktrace.TracerProvider
)

// Config holds logging configuration.
type Config struct {
	Level    string // debug, info, warn, error
	Format   string // json or console
	Detailed bool   // caller file:line on every entry
	Tracing  bool   // OpenTelemetry spans to stderr
}

// LoadConfigFromEnv reads LOG_LEVEL, LOG_FORMAT, LOG_DETAILED and
// LOG_TRACING_ENABLED.
func LoadConfigFromEnv() Config {
	return Config{
		Level:    getEnvOrDefault("LOG_LEVEL", "info"),
		Format:   getEnvOrDefault("LOG_FORMAT", "json"),
		Detailed: getEnvOrDefault("LOG_DETAILED", "false") == "true",
		Tracing:  getEnvOrDefault("LOG_TRACING_ENABLED", "false") == "true",
	}
}

// Init configures the logger from the environment.
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// InitWithConfig builds the zap logger and, when enabled, the tracer.
// Logs go to stderr so command output on stdout stays clean.
func InitWithConfig(cfg Config) error {
	zcfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Format, "console") || strings.EqualFold(cfg.Format, "text") {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	zcfg.DisableCaller = !cfg.Detailed
	zcfg.DisableStacktrace = true
	zcfg.Sampling = nil

	l, err := zcfg.Build(zap.AddCallerSkip(1), zap.Fields(zap.String("service", serviceName)))
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	Replace(l)

	if cfg.Tracing {
		if err := initTracer(); err != nil {
			Warn(context.Background(), "tracing disabled", "error", err)
			tracingEnabled = false
		}
	}
	return nil
}

// Replace swaps the underlying zap logger and returns a func restoring the
// previous one. Tests use it with zaptest/observer.
func Replace(l *zap.Logger) (restore func()) {
	prev := base
	base = l
	sugar = l.Sugar()
	return func() {
		base = prev
		sugar = prev.Sugar()
	}
}

// L exposes the zap logger for libraries that take one.
func L() *zap.Logger {
	return base
}

func initTracer() error {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(os.Stderr),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return err
	}

	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(semconv.ServiceName(serviceName)),
	)
	if err != nil {
		return err
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	tracer = otel.Tracer(serviceName)
	tracingEnabled = true
	return nil
}

// Shutdown flushes buffered log entries and spans.
func Shutdown(ctx context.Context) error {
	_ = base.Sync()
	if tracerProvider != nil {
		return tracerProvider.Shutdown(ctx)
	}
	return nil
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// StartSpan starts a span when tracing is on; otherwise it returns ctx and
// whatever span ctx already carries.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if !tracingEnabled || tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

func withTrace(ctx context.Context, kv []any) []any {
	if ctx == nil {
		return kv
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return kv
	}
	return append([]any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}, kv...)
}

func Debug(ctx context.Context, msg string, kv ...any) {
	sugar.Debugw(msg, withTrace(ctx, kv)...)
}

func Info(ctx context.Context, msg string, kv ...any) {
	sugar.Infow(msg, withTrace(ctx, kv)...)
}

func Warn(ctx context.Context, msg string, kv ...any) {
	sugar.Warnw(msg, withTrace(ctx, kv)...)
}

func Error(ctx context.Context, msg string, kv ...any) {
	sugar.Errorw(msg, withTrace(ctx, kv)...)
}

// ErrorWithErr logs err and marks the current span as failed.
func ErrorWithErr(ctx context.Context, msg string, err error, kv ...any) {
	if ctx != nil && err != nil {
		span := trace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	sugar.Errorw(msg, withTrace(ctx, append([]any{"error", err}, kv...))...)
}

// Operation times one unit of work under its own span.
type Operation struct {
	ctx    context.Context
	name   string
	span   trace.Span
	start  time.Time
	fields []any
}

// StartOperation opens a span named name with fields as attributes. Use
// the returned Context for work inside the operation.
func StartOperation(ctx context.Context, name string, fields ...any) *Operation {
	ctx, span := StartSpan(ctx, name)
	if tracingEnabled {
		span.SetAttributes(attrs(fields)...)
	}
	Debug(ctx, "operation started", append([]any{"operation", name}, fields...)...)
	return &Operation{ctx: ctx, name: name, span: span, start: time.Now(), fields: fields}
}

func (op *Operation) Context() context.Context {
	return op.ctx
}

// End closes the span and logs the duration at debug level.
func (op *Operation) End(fields ...any) {
	d := time.Since(op.start)
	if tracingEnabled {
		op.span.SetAttributes(attribute.Int64("duration_ms", d.Milliseconds()))
		op.span.SetAttributes(attrs(fields)...)
		op.span.SetStatus(codes.Ok, "completed")
		op.span.End()
	}
	kv := append([]any{"operation", op.name, "duration_ms", d.Milliseconds()}, op.fields...)
	Debug(op.ctx, "operation completed", append(kv, fields...)...)
}

// EndWithError closes the span as failed and logs at error level.
func (op *Operation) EndWithError(err error, fields ...any) {
	d := time.Since(op.start)
	if tracingEnabled {
		op.span.SetAttributes(attribute.Int64("duration_ms", d.Milliseconds()))
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, err.Error())
		op.span.End()
	}
	kv := append([]any{"operation", op.name, "duration_ms", d.Milliseconds(), "error", err}, op.fields...)
	sugar.Errorw("operation failed", withTrace(op.ctx, append(kv, fields...))...)
}

func attrs(fields []any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(fields)/2)
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		switch v := fields[i+1].(type) {
		case string:
			out = append(out, attribute.String(key, v))
		case int:
			out = append(out, attribute.Int(key, v))
		case int64:
			out = append(out, attribute.Int64(key, v))
		case float64:
			out = append(out, attribute.Float64(key, v))
		case bool:
			out = append(out, attribute.Bool(key, v))
		case fmt.Stringer:
			out = append(out, attribute.String(key, v.String()))
		}
	}
	return out
}

// IsTracingEnabled reports whether spans are being exported.
func IsTracingEnabled() bool {
	return tracingEnabled
}
