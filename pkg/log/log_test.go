package log_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yantoz/finderex/pkg/log"
)

func TestCreateHandlerWithStrings(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err    error
		level  string
		format string
	}{
		"json": {
			level:  "info",
			format: "json",
		},
		"logfmt upper case": {
			level:  "DEBUG",
			format: "LOGFMT",
		},
		"text": {
			level:  "warning",
			format: "text",
		},
		"unknown level": {
			level:  "verbose",
			format: "json",
			err:    log.ErrUnknownLogLevel,
		},
		"unknown format": {
			level:  "info",
			format: "yaml",
			err:    log.ErrUnknownLogFormat,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			h, err := log.CreateHandlerWithStrings(&bytes.Buffer{}, tc.level, tc.format)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				require.ErrorIs(t, err, log.ErrInvalidArgument)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, h)
		})
	}
}

func TestCreateHandler_Level(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(log.CreateHandler(buf, slog.LevelWarn, log.FormatJSON))

	logger.Info("hidden")
	logger.Warn("shown", slog.String("scope", "user"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "user", rec["scope"])
}

func TestWithRequest(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(log.CreateHandler(buf, slog.LevelDebug, log.FormatJSON))

	ctx := log.IntoContext(context.Background(), logger)
	ctx = log.WithRequest(ctx, "run_process", "req-1")

	log.WithContext(ctx).DebugContext(ctx, "calling helper")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "run_process", rec["op"])
	assert.Equal(t, "req-1", rec["request_id"])
}

func TestWithContext_Default(t *testing.T) {
	t.Parallel()

	assert.Same(t, slog.Default(), log.WithContext(context.Background()))
}
