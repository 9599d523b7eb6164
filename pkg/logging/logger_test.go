package logging_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/maryline/catalogsync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	old := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(old) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "warning message")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRunID(ctx, "run-123")
	ctx = logging.WithStage(ctx, "categories")

	logging.FromContext(ctx).Info().Msg("created")

	assert.Equal(t, "run-123", logging.RunID(ctx))
	testLogger.AssertContains(t, `"run_id":"run-123"`)
	testLogger.AssertContains(t, `"stage":"categories"`)
	testLogger.AssertContains(t, "created")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.RunID(context.Background()))
}

func TestConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		present []string
		absent  []string
	}{
		{name: "debug level", level: "debug", present: []string{`"level":"debug"`, `"level":"info"`}},
		{name: "error level only", level: "error", present: []string{`"level":"error"`}, absent: []string{`"level":"info"`}},
		{name: "invalid level falls back to info", level: "loud", present: []string{`"level":"info"`}, absent: []string{`"level":"debug"`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := zerolog.GlobalLevel()
			t.Cleanup(func() { zerolog.SetGlobalLevel(old) })

			logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Format: "json", Output: "discard"})
			buf := &bytes.Buffer{}
			logger = logger.Output(buf)

			logger.Debug().Msg("d")
			logger.Info().Msg("i")
			logger.Error().Msg("e")

			output := buf.String()
			for _, s := range tt.present {
				assert.True(t, strings.Contains(output, s), "expected %s in %s", s, output)
			}
			for _, s := range tt.absent {
				assert.False(t, strings.Contains(output, s), "unexpected %s in %s", s, output)
			}
		})
	}
}

func TestTestLoggerLines(t *testing.T) {
	tl := logging.NewTestLogger(t)
	assert.Empty(t, tl.Lines())

	tl.Info().Msg("one")
	tl.Info().Msg("two")
	assert.Len(t, tl.Lines(), 2)
}
