package tessera

import "testing"

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-drop", "after-drop"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestScreenshotQueueAppend(t *testing.T) {
	i, _ := newTestInstance(t)
	i.Screenshot("a")
	i.Screenshot("b")
	i.Screenshot("c")
	if len(i.screenshotQueue) != 3 {
		t.Fatalf("queue len = %d, want 3", len(i.screenshotQueue))
	}
	if i.screenshotQueue[0] != "a" || i.screenshotQueue[1] != "b" || i.screenshotQueue[2] != "c" {
		t.Errorf("queue = %v, want [a b c]", i.screenshotQueue)
	}
}

func TestScreenshotDirDefault(t *testing.T) {
	i, _ := newTestInstance(t)
	if i.ScreenshotDir != "screenshots" {
		t.Errorf("ScreenshotDir = %q, want %q", i.ScreenshotDir, "screenshots")
	}
}
