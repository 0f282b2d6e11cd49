// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// SplitMode selects how the export splitter groups conversations.
type SplitMode string

const (
	// ModeMonth groups by calendar month ("YYYY-MM").
	ModeMonth SplitMode = "month"
	// ModeWeek groups by ISO week ("YYYY-Www").
	ModeWeek SplitMode = "week"
	// ModeTitle groups by sanitized conversation title.
	ModeTitle SplitMode = "title"
	// ModeDateTitle groups by month, then by title within per-month directories.
	ModeDateTitle SplitMode = "date_title"
)

// Valid reports whether m is one of the recognized split modes.
func (m SplitMode) Valid() bool {
	switch m {
	case ModeMonth, ModeWeek, ModeTitle, ModeDateTitle:
		return true
	}
	return false
}

// SplitConfig holds settings for the export splitter.
type SplitConfig struct {
	// Mode selects the grouping strategy (default: month).
	Mode SplitMode `json:"mode" yaml:"mode"`

	// Prefix is the output filename prefix (default: "conversations").
	Prefix string `json:"prefix" yaml:"prefix"`

	// OutMonths lists bucket keys to exclude from output entirely.
	OutMonths []string `json:"out_months,omitempty" yaml:"out_months,omitempty"`

	// Manifest enables writing a YAML manifest of the produced buckets.
	Manifest bool `json:"manifest" yaml:"manifest"`
}

// MasterConfig holds settings for master book assembly.
type MasterConfig struct {
	// Banner is the document banner printed at the top of the master book.
	Banner string `json:"banner" yaml:"banner"`
}
