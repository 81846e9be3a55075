package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", ""},
		{" ", ""},
		{"auto", ""},
		{"en", "en"},
		{"EN", "en"},
		{"eng", "en"},
		{"fre", "fr"},
		{"ger", "de"},
		{"chi", "zh"},
		{"English", "en"},
		{"deutsch", "de"},
		{"en-US", "en"},
		{"pt-BR", "pt"},
		{"zh-Hant-TW", "zh"},
		{"cs", "cs"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if err != nil {
				t.Fatalf("Normalize(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeRejectsGarbage(t *testing.T) {
	for _, input := range []string{"klingon-language!", "12"} {
		if _, err := Normalize(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
	if got := ToISO2("12"); got != "" {
		t.Fatalf("ToISO2 should swallow errors, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "Auto-detect"},
		{"en", "English"},
		{"fra", "French"},
		{"cs", "Czech"},
	}
	for _, tt := range tests {
		if got := DisplayName(tt.input); got != tt.want {
			t.Fatalf("DisplayName(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
