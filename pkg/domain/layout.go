package domain

// LayoutConfig is the declarative directed layered layout handed to the
// drawing engine on every render.
type LayoutConfig struct {
	Type           string `json:"type" yaml:"type" toml:"type"`
	RankDir        string `json:"rankdir" yaml:"rankdir" toml:"rankdir"`
	SortByCombo    bool   `json:"sortByCombo" yaml:"sort_by_combo" toml:"sort_by_combo"`
	RankSep        int    `json:"ranksep" yaml:"ranksep" toml:"ranksep"`
	NodeSep        int    `json:"nodesep" yaml:"nodesep" toml:"nodesep"`
	FitViewPadding int    `json:"fitViewPadding" yaml:"fit_view_padding" toml:"fit_view_padding"`
	Animate        bool   `json:"animate" yaml:"animate" toml:"animate"`
}

// DefaultLayout returns the left-to-right dagre layout used by the dashboard.
func DefaultLayout() LayoutConfig {
	return LayoutConfig{
		Type:           "dagre",
		RankDir:        "LR",
		SortByCombo:    true,
		RankSep:        10,
		NodeSep:        10,
		FitViewPadding: 30,
		Animate:        true,
	}
}

// WithSortByCombo returns a copy ordering ranks by combo membership.
func (l LayoutConfig) WithSortByCombo() LayoutConfig {
	l.SortByCombo = true
	return l
}
