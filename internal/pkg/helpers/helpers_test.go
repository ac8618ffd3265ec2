package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNullIfEmpty(t *testing.T) {
	blank := "   "
	text := "  Basics of Go "

	assert.Nil(t, NullIfEmpty(nil))
	assert.Nil(t, NullIfEmpty(&blank))
	if assert.NotNil(t, NullIfEmpty(&text)) {
		assert.Equal(t, "Basics of Go", *NullIfEmpty(&text))
	}
}

func TestNullableInt32(t *testing.T) {
	n := 30
	assert.Nil(t, NullableInt32(nil))
	assert.Equal(t, int32(30), *NullableInt32(&n))
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 24*time.Hour, ParseDuration("24h", time.Minute))
	assert.Equal(t, time.Minute, ParseDuration("soon", time.Minute))
}
