package language

import "testing"

func TestDetect_English(t *testing.T) {
	d := New()

	text := "The quick brown fox jumps over the lazy dog while the sun sets slowly behind the distant mountains."
	if got := d.Detect(text); got != "en" {
		t.Errorf("Detect() = %q, want %q", got, "en")
	}
}

func TestDetect_ShortTextSkipped(t *testing.T) {
	d := New()

	if got := d.Detect("hi"); got != "" {
		t.Errorf("Detect() = %q for short text, want empty", got)
	}
	if got := d.Detect("   "); got != "" {
		t.Errorf("Detect() = %q for whitespace, want empty", got)
	}
}
