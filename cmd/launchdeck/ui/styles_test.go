package ui

import (
	"strings"
	"testing"
)

func TestThemeByName(t *testing.T) {
	if got := ThemeByName("light"); got.IsDark {
		t.Errorf("light theme flagged dark")
	}
	if got := ThemeByName("dark"); !got.IsDark {
		t.Errorf("dark theme flagged light")
	}
	if got := ThemeByName("DARK"); !got.IsDark {
		t.Errorf("theme names should be case-insensitive")
	}
}

func TestDetectThemeFromColorFgBg(t *testing.T) {
	cases := []struct {
		env  string
		dark bool
	}{
		{"", true}, // nothing advertised: default dark
		{"15;0", true},
		{"0;15", false},
		{"12;8", true}, // 8 is dark grey
		{"garbage", true},
	}
	for _, tc := range cases {
		t.Setenv("COLORFGBG", tc.env)
		if got := DetectTheme(); got.IsDark != tc.dark {
			t.Errorf("COLORFGBG=%q: IsDark = %v, want %v", tc.env, got.IsDark, tc.dark)
		}
	}
}

func TestRenderTabs(t *testing.T) {
	s := DefaultStyles()
	out := s.RenderTabs([]string{"Financials", "Details"}, 1)
	if !strings.Contains(out, "Financials") || !strings.Contains(out, "Details") {
		t.Errorf("tab bar missing labels: %q", out)
	}
}

func TestSimpleTableView(t *testing.T) {
	tbl := NewSimpleTable("Gates", []string{"Gate", "Pass"})
	tbl.AddRow("Regulatory", "✓")
	tbl.AddRow("GM floor", "✗")

	out := tbl.View(DefaultStyles())
	for _, want := range []string{"Gates", "Gate", "Regulatory", "✓", "GM floor"} {
		if !strings.Contains(out, want) {
			t.Errorf("table view missing %q:\n%s", want, out)
		}
	}
}
