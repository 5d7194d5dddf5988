package domain

import "time"

// NotificationsLimit is the number of notifications kept, most recent first.
const NotificationsLimit = 20

// System status values.
const (
	SystemActive   = "active"
	SystemDegraded = "degraded"
	SystemDown     = "down"
)

// DashboardHeaders are the presentation labels of the dashboard.
type DashboardHeaders struct {
	MainTitle            string `json:"mainTitle"`
	Subtitle             string `json:"subtitle"`
	QuickActionsTitle    string `json:"quickActionsTitle"`
	RecentDocumentsTitle string `json:"recentDocumentsTitle"`
}

// HeadersUpdate is a partial update of DashboardHeaders.
// Nil fields are left unchanged.
type HeadersUpdate struct {
	MainTitle            *string `json:"mainTitle,omitempty"`
	Subtitle             *string `json:"subtitle,omitempty"`
	QuickActionsTitle    *string `json:"quickActionsTitle,omitempty"`
	RecentDocumentsTitle *string `json:"recentDocumentsTitle,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u HeadersUpdate) IsEmpty() bool {
	return u.MainTitle == nil && u.Subtitle == nil && u.QuickActionsTitle == nil && u.RecentDocumentsTitle == nil
}

// Apply returns h with the update applied.
func (u HeadersUpdate) Apply(h DashboardHeaders) DashboardHeaders {
	if u.MainTitle != nil {
		h.MainTitle = *u.MainTitle
	}
	if u.Subtitle != nil {
		h.Subtitle = *u.Subtitle
	}
	if u.QuickActionsTitle != nil {
		h.QuickActionsTitle = *u.QuickActionsTitle
	}
	if u.RecentDocumentsTitle != nil {
		h.RecentDocumentsTitle = *u.RecentDocumentsTitle
	}
	return h
}

// QuickAction is a shortcut shown on the dashboard.
type QuickAction struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Path        string `json:"path"`
	Color       string `json:"color,omitempty"`
	Enabled     bool   `json:"enabled"`
}

// Notification is a dashboard message.
type Notification struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type,omitempty"`
	Title     string    `json:"title,omitempty"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// SystemStatus is the last known health of the system.
type SystemStatus struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	LastCheck time.Time `json:"lastCheck"`
}

// DashboardConfig is the durable presentation state.
type DashboardConfig struct {
	Headers       DashboardHeaders `json:"headers"`
	QuickActions  []QuickAction    `json:"quickActions"`
	Notifications []Notification   `json:"notifications"`
	SystemStatus  SystemStatus     `json:"systemStatus"`
	LastUpdated   time.Time        `json:"lastUpdated"`
}

// DefaultDashboard returns the initial dashboard configuration.
func DefaultDashboard() DashboardConfig {
	return DashboardConfig{
		Headers: DashboardHeaders{
			MainTitle:            "Dashboard",
			Subtitle:             "Welcome to DataCrafter. Manage and query your documents.",
			QuickActionsTitle:    "Quick Actions",
			RecentDocumentsTitle: "Recent Documents",
		},
		QuickActions: []QuickAction{
			{
				Title:       "Query Documents",
				Description: "Ask questions about your documents",
				Icon:        "Brain",
				Path:        "/query",
				Color:       "bg-blue-500",
				Enabled:     true,
			},
			{
				Title:       "Upload Documents",
				Description: "Add new documents to the system",
				Icon:        "Upload",
				Path:        "/upload",
				Color:       "bg-green-500",
				Enabled:     true,
			},
			{
				Title:       "View Analytics",
				Description: "Analyse system performance",
				Icon:        "BarChart3",
				Path:        "/analytics",
				Color:       "bg-purple-500",
				Enabled:     true,
			},
		},
		Notifications: []Notification{},
		SystemStatus: SystemStatus{
			Status:  SystemActive,
			Message: "System operational",
		},
	}
}

// SetLastUpdated stamps the configuration.
func (d *DashboardConfig) SetLastUpdated(t time.Time) {
	d.LastUpdated = t
}

// Clone returns a deep copy.
func (d DashboardConfig) Clone() DashboardConfig {
	out := d
	out.QuickActions = append([]QuickAction{}, d.QuickActions...)
	out.Notifications = append([]Notification{}, d.Notifications...)
	return out
}

// Normalise repairs a configuration restored from durable storage.
func (d *DashboardConfig) Normalise() {
	if d.QuickActions == nil {
		d.QuickActions = []QuickAction{}
	}
	if d.Notifications == nil {
		d.Notifications = []Notification{}
	}
	if len(d.Notifications) > NotificationsLimit {
		d.Notifications = d.Notifications[:NotificationsLimit]
	}
}
