package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("prod writes JSON and drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := New("prod", &buf)

		log.Debug("hidden")
		log.Info("course created", "id", 7)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "course created", entry["msg"])
		assert.Equal(t, float64(7), entry["id"])
		assert.NotContains(t, buf.String(), "hidden")
	})

	t.Run("staging keeps debug", func(t *testing.T) {
		var buf bytes.Buffer
		New("staging", &buf).Debug("visible")

		assert.Contains(t, buf.String(), `"msg":"visible"`)
	})

	t.Run("dev writes text", func(t *testing.T) {
		var buf bytes.Buffer
		New("dev", &buf).Debug("listing courses")

		assert.Contains(t, buf.String(), "listing courses")
		assert.False(t, json.Valid(buf.Bytes()))
	})
}
