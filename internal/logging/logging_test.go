package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigureJSON(t *testing.T) {
	var buf bytes.Buffer
	log, err := configure(logrus.New(), &buf, "debug", "json", "viewer")
	require.NoError(t, err)

	log.WithField("component", "session").Debug("hello")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "viewer", line["app"])
	assert.Equal(t, "session", line["component"])
}

func TestConfigureRejects(t *testing.T) {
	_, err := configure(logrus.New(), &bytes.Buffer{}, "loud", "text", "x")
	assert.Error(t, err)
	_, err = configure(logrus.New(), &bytes.Buffer{}, "info", "xml", "x")
	assert.Error(t, err)
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := configure(logrus.New(), &buf, "warn", "text", "host")
	require.NoError(t, err)
	log.Info("quiet")
	assert.Empty(t, buf.String())
	log.Warn("loud")
	assert.Contains(t, buf.String(), "loud")
}
