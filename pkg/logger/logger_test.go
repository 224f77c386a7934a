package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&Config{Level: "loud", Output: "stdout"})
	require.Error(t, err)
}

func TestFieldsAreWrittenAsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf)

	l.Warn("upstream failed",
		String("resource", "primes"),
		Int("count", 3),
		Float64("avg", 5.6),
		Duration("latency_ms", 1500*time.Millisecond),
		Error(errors.New("boom")),
	)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "warn", got["level"])
	assert.Equal(t, "upstream failed", got["message"])
	assert.Equal(t, "primes", got["resource"])
	assert.EqualValues(t, 3, got["count"])
	assert.EqualValues(t, 5.6, got["avg"])
	assert.EqualValues(t, 1500, got["latency_ms"])
	assert.Equal(t, "boom", got["error"])
}

func TestWithCarriesFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriter(&buf).With(String("component", "pricecache"))

	l.Info("hit")

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "pricecache", got["component"])
}
