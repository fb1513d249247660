package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/your-org/commerce-analytics/internal/config"
)

func TestNewJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOutput(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)
	require.Equal(t, logrus.WarnLevel, log.GetLevel())

	log.Info("dropped")
	require.Zero(t, buf.Len())

	log.WithField("report", "sales").Warn("slow report")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "slow report", entry["msg"])
	require.Equal(t, "sales", entry["report"])
}

func TestNewFallsBackToInfo(t *testing.T) {
	log := NewWithOutput(config.LoggingConfig{Level: "loud", Format: "text"}, &bytes.Buffer{})
	require.Equal(t, logrus.InfoLevel, log.GetLevel())
	require.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}
