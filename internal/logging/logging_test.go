package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParsesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "debug", false)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger = NewWithOutput(&buf, "nonsense", false)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithOutput(&buf, "info", true)
	logger.WithField("recipe_id", "abc").Info("recipe created")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "recipe created", entry["msg"])
	assert.Equal(t, "abc", entry["recipe_id"])
}
