package domain

// Theme values.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
	ThemeAuto  = "auto"
)

// Preferences is the singleton record of display preferences.
type Preferences struct {
	Theme          string `json:"theme" validate:"oneof=light dark auto"`
	Accent         string `json:"accent" validate:"hexcolor"`
	FirstDayOfWeek int    `json:"firstDayOfWeek" validate:"gte=0,lte=6"`
	TimeFormat     string `json:"timeFormat" validate:"required"`
	DisplayUnit    string `json:"displayUnit" validate:"required"`
}

// DefaultPreferences returns the preferences used before anything is persisted.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme:          ThemeDark,
		Accent:         "#6aa3ff",
		FirstDayOfWeek: 1,
		TimeFormat:     "HH:mm",
		DisplayUnit:    "page-first",
	}
}

// PreferencesPatch is a merge-patch: nil fields keep their current value.
type PreferencesPatch struct {
	Theme          *string `json:"theme,omitempty"`
	Accent         *string `json:"accent,omitempty"`
	FirstDayOfWeek *int    `json:"firstDayOfWeek,omitempty"`
	TimeFormat     *string `json:"timeFormat,omitempty"`
	DisplayUnit    *string `json:"displayUnit,omitempty"`
}

// Apply returns p with the patch's non-nil fields merged in.
func (p Preferences) Apply(patch PreferencesPatch) Preferences {
	if patch.Theme != nil {
		p.Theme = *patch.Theme
	}
	if patch.Accent != nil {
		p.Accent = *patch.Accent
	}
	if patch.FirstDayOfWeek != nil {
		p.FirstDayOfWeek = *patch.FirstDayOfWeek
	}
	if patch.TimeFormat != nil {
		p.TimeFormat = *patch.TimeFormat
	}
	if patch.DisplayUnit != nil {
		p.DisplayUnit = *patch.DisplayUnit
	}
	return p
}

// Patch converts p to a patch that sets every field.
func (p Preferences) Patch() PreferencesPatch {
	return PreferencesPatch{
		Theme:          &p.Theme,
		Accent:         &p.Accent,
		FirstDayOfWeek: &p.FirstDayOfWeek,
		TimeFormat:     &p.TimeFormat,
		DisplayUnit:    &p.DisplayUnit,
	}
}

// Validate checks the preference values.
func (p *Preferences) Validate() error {
	return validate.Validate(p)
}
