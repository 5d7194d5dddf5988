package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInt(t *testing.T) {
	assert.Equal(t, 1, Int(1))
	assert.Equal(t, 2, Int(int64(2)))
	assert.Equal(t, 3, Int(3.9))
	assert.Equal(t, 4, Int(" 4 "))
	assert.Equal(t, 0, Int("four"))
	assert.Equal(t, 0, Int(nil))
}

func TestBool(t *testing.T) {
	assert.True(t, Bool(true))
	assert.True(t, Bool("TRUE"))
	assert.True(t, Bool("1"))
	assert.False(t, Bool("no"))
	assert.False(t, Bool(1))
}

func TestDuration(t *testing.T) {
	assert.Equal(t, time.Second, Duration("1s"))
	assert.Equal(t, 500*time.Millisecond, Duration("500"))
	assert.Equal(t, 250*time.Millisecond, Duration(int64(250)))
	assert.Equal(t, time.Duration(0), Duration("soon"))
}

func TestString(t *testing.T) {
	assert.Equal(t, "x", String("x"))
	assert.Equal(t, "", String(42))
}
