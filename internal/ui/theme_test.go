package ui

import "testing"

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 3 {
		t.Fatalf("ThemeNames() returned %d names, want 3", len(names))
	}
	if names[0] != "Nightfox" {
		t.Fatalf("ThemeNames()[0] = %q, want Nightfox", names[0])
	}
}

func TestNextTheme(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"Nightfox", "Kanagawa"},
		{"Kanagawa", "Slate"},
		{"Slate", "Nightfox"},
		{"Unknown", "Nightfox"},
	}
	for _, tt := range tests {
		if got := NextTheme(tt.current); got != tt.want {
			t.Fatalf("NextTheme(%s) = %q, want %q", tt.current, got, tt.want)
		}
	}
}

func TestGetTheme(t *testing.T) {
	if got := GetTheme("Slate").Name; got != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got)
	}
	if got := GetTheme("Unknown").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(Unknown).Name = %q, want Nightfox (fallback)", got)
	}
}

func TestThemeLookups(t *testing.T) {
	th := GetTheme("Nightfox")

	if got := th.StatusColor("  Downloading "); got != th.StatusColors["downloading"] {
		t.Fatalf("StatusColor = %q, want %q", got, th.StatusColors["downloading"])
	}
	if got := th.StatusColor("unknown"); got != th.Text {
		t.Fatalf("StatusColor unknown = %q, want %q", got, th.Text)
	}
	if got := th.FlashColor("danger"); got != th.Danger {
		t.Fatalf("FlashColor(danger) = %q, want %q", got, th.Danger)
	}
	if got := th.FlashColor("other"); got != th.Info {
		t.Fatalf("FlashColor(other) = %q, want %q", got, th.Info)
	}
}

func TestThemesDefineSameStatuses(t *testing.T) {
	base := GetTheme("Nightfox").StatusColors
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for status := range base {
			if th.StatusColors[status] == "" {
				t.Fatalf("theme %s missing status %q", name, status)
			}
		}
	}
}
