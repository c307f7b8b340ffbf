package prefs

import "testing"

func TestNewStore_UsesDefaults(t *testing.T) {
	s := NewStore()
	p := s.Get()
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Language != "en" || p.IsRTL {
		t.Fatalf("Language = %q rtl=%v, want en ltr", p.Language, p.IsRTL)
	}
}

func TestRestore_FillsBlanksAndKeepsActivity(t *testing.T) {
	s := NewStore()
	s.SetNetworkActivity(true)

	s.Restore(Prefs{Theme: "", Language: "ar", IsRTL: true})
	p := s.Get()
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.Language != "ar" || !p.IsRTL {
		t.Fatalf("Language = %q rtl=%v, want ar rtl", p.Language, p.IsRTL)
	}
	if !p.NetworkActivity {
		t.Fatalf("NetworkActivity should survive Restore")
	}
}

func TestSetters_NotifyOnlyOnChange(t *testing.T) {
	s := NewStore()
	calls := 0
	cancel := s.Subscribe(func() { calls++ })
	defer cancel()

	s.SetTheme("Slate")
	s.SetTheme("Slate")
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}

	s.SetLanguage("", true)
	if p := s.Get(); p.Language != "en" || p.IsRTL {
		t.Fatalf("blank language = %q rtl=%v, want en ltr", p.Language, p.IsRTL)
	}

	s.SetTheme("  ")
	if got := s.Get().Theme; got != defaultTheme {
		t.Fatalf("Theme = %q, want %q", got, defaultTheme)
	}
}

func TestNextLanguageCycles(t *testing.T) {
	tests := []struct {
		current string
		want    string
	}{
		{"en", "pt-BR"},
		{"pt-BR", "en"},
		{"fr", "en"},
		{"", "en"},
	}
	for _, tt := range tests {
		if got := NextLanguage(tt.current); got != tt.want {
			t.Fatalf("NextLanguage(%q) = %q, want %q", tt.current, got, tt.want)
		}
	}
}
