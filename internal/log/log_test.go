package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bufferLogger(buf *bytes.Buffer, component string) *Logger {
	return New(Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   NewTextHandler(buf, slog.LevelDebug),
	})
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestLogger_ComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := bufferLogger(&buf, ComponentApp).WithComponent(ComponentContracts)

	l.Info("hello", FieldFolio, "CTR-1")

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "component="))
	assert.Contains(t, out, "component=contracts")
	assert.Contains(t, out, "folio=CTR-1")
}

func TestStructuredLogger_ContractEvents(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf, ComponentHTTP))

	sl.LogContractDeleted(context.Background(), 7, "CTR-7", true, false)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "component="))
	assert.Contains(t, out, "component=contracts")
	assert.Contains(t, out, "contract_id=7")
	assert.Contains(t, out, "client_deleted=true")
	assert.Contains(t, out, "aval_deleted=false")
	assert.Contains(t, out, "operation=delete")
}

func TestStructuredLogger_HTTPEndLevel(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(bufferLogger(&buf, ComponentHTTP))
	r := httptest.NewRequest(http.MethodGet, "/api/weeks", nil)

	sl.LogHTTPEnd(context.Background(), r, http.StatusInternalServerError, 12, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	sl.LogHTTPEnd(context.Background(), r, http.StatusNotFound, 3, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestLogFields_WithError(t *testing.T) {
	f := NewFields().WithError(nil)
	_, ok := f[FieldError]
	assert.False(t, ok)

	f = NewFields().WithError(errors.New("boom"))
	assert.Equal(t, "boom", f[FieldError])
}

func TestMiddlewareStoresLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := bufferLogger(&buf, ComponentHTTP)

	var got *Logger
	h := Middleware(logger)(RequestIDMiddleware(func(*http.Request) string { return "req-1" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = FromContext(r.Context())
		})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, got)
	got.Info("inside")
	assert.Contains(t, buf.String(), "request_id=req-1")

	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestCronLogger(t *testing.T) {
	var buf bytes.Buffer
	cl := CronLogger(bufferLogger(&buf, ComponentWorker))

	cl.Info("wake", "now", "2026-10-19")
	cl.Error(errors.New("panic: boom"), "panic", "stack", "...")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=wake")
	assert.Contains(t, out, "level=ERROR msg=panic")
	assert.Contains(t, out, `error="panic: boom"`)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		assert.Equal(t, 1, strings.Count(line, "component="), line)
		assert.Contains(t, line, "component=scheduler")
	}
}
