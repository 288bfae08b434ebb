package logger_test

import (
	"context"
	"testing"

	"vibenotes/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	environments := []logger.Environment{logger.Development, logger.Production}

	testCases := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"", true},
		{"verbose", false},
		{"warning", false},
	}

	for _, env := range environments {
		for _, tc := range testCases {
			t.Run(string(env)+"/level="+tc.level, func(t *testing.T) {
				log, err := logger.NewLogger(env, tc.level)
				if tc.valid {
					require.NoError(t, err)
					require.NotNil(t, log)
				} else {
					require.Error(t, err)
					assert.Nil(t, log)
				}
			})
		}
	}
}

func TestLoggerWith(t *testing.T) {
	log, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)

	derived := log.WithRequestID(logger.NewRequestIDContext(context.Background(), "req-1"))

	require.NotNil(t, derived)
	assert.NotSame(t, log, derived, "With should return a copy")
}
