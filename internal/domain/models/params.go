package models

// DispatchParams is the singleton dispatch configuration document.
type DispatchParams struct {
	AutoAssign           bool    `json:"auto_assign"`
	ReassignDelayMinutes int     `json:"reassign_delay_minutes"`
	SearchRadiusKm       float64 `json:"search_radius_km"`
	NotificationsEnabled bool    `json:"notifications_enabled"`
}

// DefaultDispatchParams is used whenever the stored document is missing or unreadable.
func DefaultDispatchParams() DispatchParams {
	return DispatchParams{
		AutoAssign:           true,
		ReassignDelayMinutes: 10,
		SearchRadiusKm:       10,
		NotificationsEnabled: true,
	}
}
