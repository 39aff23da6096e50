package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the status bar palette. Show colours on the canvas come from
// the show itself.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Warning   lipgloss.Color
}

var (
	ThemeMidnight = Theme{
		Name:      "midnight",
		Primary:   lipgloss.Color("#ffcc00"),
		Secondary: lipgloss.Color("#ff9966"),
		Accent:    lipgloss.Color("#ffd700"),
		Text:      lipgloss.Color("#f5f0e0"),
		Muted:     lipgloss.Color("#4a4a6a"),
		Warning:   lipgloss.Color("#ff5566"),
	}

	ThemeEmber = Theme{
		Name:      "ember",
		Primary:   lipgloss.Color("#ff6b35"),
		Secondary: lipgloss.Color("#f7c59f"),
		Accent:    lipgloss.Color("#ff4500"),
		Text:      lipgloss.Color("#fff5ee"),
		Muted:     lipgloss.Color("#6b3a2a"),
		Warning:   lipgloss.Color("#ffd23f"),
	}

	ThemeAurora = Theme{
		Name:      "aurora",
		Primary:   lipgloss.Color("#7cffcb"),
		Secondary: lipgloss.Color("#74f2ce"),
		Accent:    lipgloss.Color("#b388ff"),
		Text:      lipgloss.Color("#e8fff7"),
		Muted:     lipgloss.Color("#2e5e57"),
		Warning:   lipgloss.Color("#ff80ab"),
	}

	ThemeMono = Theme{
		Name:      "mono",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#ffffff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Warning:   lipgloss.Color("#aaaaaa"),
	}

	Themes = []Theme{
		ThemeMidnight,
		ThemeEmber,
		ThemeAurora,
		ThemeMono,
	}
)

// GetTheme returns a theme by name, falling back to midnight.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMidnight
}

// NextTheme returns the theme after t, wrapping around.
func NextTheme(t Theme) Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
