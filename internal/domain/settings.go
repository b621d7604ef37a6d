package domain

// Settings is the user-tunable record. Values are stored as given.
type Settings struct {
	Notifications   bool `json:"notifications"`
	DarkMode        bool `json:"dark_mode"`
	RefreshInterval int  `json:"refresh_interval"` // milliseconds
	ShowPnLPercent  bool `json:"show_pnl_percent"`
}

// DefaultSettings mirrors the first-run values of the app.
func DefaultSettings() Settings {
	return Settings{
		Notifications:   true,
		DarkMode:        true,
		RefreshInterval: 60000,
		ShowPnLPercent:  true,
	}
}

// SettingsPatch is a partial update; nil fields are left unchanged.
type SettingsPatch struct {
	Notifications   *bool `json:"notifications,omitempty"`
	DarkMode        *bool `json:"dark_mode,omitempty"`
	RefreshInterval *int  `json:"refresh_interval,omitempty"`
	ShowPnLPercent  *bool `json:"show_pnl_percent,omitempty"`
}

// Apply merges the patch into s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Notifications != nil {
		s.Notifications = *p.Notifications
	}
	if p.DarkMode != nil {
		s.DarkMode = *p.DarkMode
	}
	if p.RefreshInterval != nil {
		s.RefreshInterval = *p.RefreshInterval
	}
	if p.ShowPnLPercent != nil {
		s.ShowPnLPercent = *p.ShowPnLPercent
	}
	return s
}
