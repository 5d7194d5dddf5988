package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultDashboard(t *testing.T) {
	d := DefaultDashboard()

	assert.Equal(t, "Dashboard", d.Headers.MainTitle)
	assert.Len(t, d.QuickActions, 3)
	assert.Equal(t, "/query", d.QuickActions[0].Path)
	assert.Equal(t, "/upload", d.QuickActions[1].Path)
	assert.Equal(t, "/analytics", d.QuickActions[2].Path)
	assert.NotNil(t, d.Notifications)
	assert.Equal(t, SystemActive, d.SystemStatus.Status)
}

func TestHeadersUpdate_Apply(t *testing.T) {
	title := "Home"
	u := HeadersUpdate{MainTitle: &title}
	assert.False(t, u.IsEmpty())
	assert.True(t, HeadersUpdate{}.IsEmpty())

	h := u.Apply(DefaultDashboard().Headers)

	assert.Equal(t, "Home", h.MainTitle)
	assert.Equal(t, "Quick Actions", h.QuickActionsTitle)
}

func TestDashboardConfig_Normalise(t *testing.T) {
	d := DashboardConfig{}
	for i := 0; i < 25; i++ {
		d.Notifications = append(d.Notifications, Notification{ID: int64(i)})
	}

	d.Normalise()

	assert.Len(t, d.Notifications, NotificationsLimit)
	assert.NotNil(t, d.QuickActions)
}
