package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("SIGNALS_TEST_STRING", "amqp://broker")
	t.Setenv("SIGNALS_TEST_INT", "42")
	t.Setenv("SIGNALS_TEST_BAD_INT", "forty")
	t.Setenv("SIGNALS_TEST_BOOL", "true")
	t.Setenv("SIGNALS_TEST_DURATION", "15s")

	assert.Equal(t, "amqp://broker", GetString("SIGNALS_TEST_STRING", "x"))
	assert.Equal(t, "x", GetString("SIGNALS_TEST_MISSING", "x"))
	assert.Equal(t, 42, GetInt("SIGNALS_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("SIGNALS_TEST_BAD_INT", 1))
	assert.True(t, GetBool("SIGNALS_TEST_BOOL", false))
	assert.Equal(t, 15*time.Second, GetDuration("SIGNALS_TEST_DURATION", time.Second))
	assert.Equal(t, time.Second, GetDuration("SIGNALS_TEST_MISSING", time.Second))
}
