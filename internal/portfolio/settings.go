package portfolio

import (
	"sort"
	"strings"
)

// Settings is the global settings document: flat map of key to value.
type Settings map[string]float64

// Clone returns an independent copy of the document.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// SettingGroup is the display group a setting key belongs to. Grouping is a
// client-side convention over key names only; the backend knows nothing
// about it.
type SettingGroup int

const (
	GroupScoringWeights SettingGroup = iota
	GroupScenario
	GroupThresholds
	GroupGeneral
)

// String returns the group's display title.
func (g SettingGroup) String() string {
	switch g {
	case GroupScoringWeights:
		return "Scoring Weights"
	case GroupScenario:
		return "Scenario Parameters"
	case GroupThresholds:
		return "Launch Thresholds"
	default:
		return "General"
	}
}

// SettingGroups lists the groups in display order.
var SettingGroups = []SettingGroup{
	GroupScoringWeights,
	GroupScenario,
	GroupThresholds,
	GroupGeneral,
}

// thresholdKeys is the fixed membership list for the Launch Thresholds
// group. Keys not matched by the weight/scenario conventions and not listed
// here fall through to General.
var thresholdKeys = map[string]struct{}{
	"launch_now_min_score":  {},
	"launch_now_max_risk":   {},
	"phase_later_min_score": {},
	"phase_later_max_risk":  {},
	"gm_floor_pct":          {},
}

// CategorizeSetting maps a setting key to its display group. Pure function
// of the key name: suffix _weight wins, then prefix scenario_, then the
// threshold membership list, then General.
func CategorizeSetting(key string) SettingGroup {
	switch {
	case strings.HasSuffix(key, "_weight"):
		return GroupScoringWeights
	case strings.HasPrefix(key, "scenario_"):
		return GroupScenario
	default:
		if _, ok := thresholdKeys[key]; ok {
			return GroupThresholds
		}
		return GroupGeneral
	}
}

// GroupSettings partitions the settings keys into the four display groups,
// each sorted for stable rendering.
func GroupSettings(s Settings) map[SettingGroup][]string {
	out := make(map[SettingGroup][]string, len(SettingGroups))
	for key := range s {
		g := CategorizeSetting(key)
		out[g] = append(out[g], key)
	}
	for _, keys := range out {
		sort.Strings(keys)
	}
	return out
}
