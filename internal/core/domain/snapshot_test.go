package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot_Presence(t *testing.T) {
	assert.False(t, Snapshot{}.HasMetrics())
	assert.False(t, Snapshot{Metrics: json.RawMessage("null")}.HasMetrics())
	assert.True(t, Snapshot{Metrics: json.RawMessage(`{}`)}.HasMetrics())
	assert.True(t, Snapshot{Dashboard: json.RawMessage(`{}`)}.HasDashboard())
}

func TestOperationResult(t *testing.T) {
	assert.Equal(t, OperationResult{Success: true, Message: "ok"}, Succeeded("ok"))
	assert.Equal(t, OperationResult{Success: false, Message: "bad"}, Failed("bad"))
}
