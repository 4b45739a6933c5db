package bot

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"menu keyword", "MENU", IntentMenu},
		{"start keyword", "start", IntentMenu},
		{"menu with whitespace", "  menu  ", IntentMenu},
		{"help keyword", "Help", IntentHelp},
		{"track bare", "TRACK", IntentTrack},
		{"track with order number", "track ORD-20260831-AB12CD34", IntentTrack},
		{"order shorthand", "1x2, 3x1", IntentOrder},
		{"order multiplication sign", "1×2", IntentOrder},
		{"order loose digit pair", "1, 2", IntentOrder},
		{"confirm keyword", "confirm", IntentConfirm},
		{"yes keyword", "YES", IntentConfirm},
		{"cancel keyword", "cancel", IntentCancel},
		{"no keyword", "No", IntentCancel},
		{"free text", "what do you sell?", IntentUnknown},
		{"empty", "", IntentUnknown},
		{"bare digits are not an order", "12", IntentUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// The order pattern must win over the confirm/cancel keywords only when it
// actually matches; a message that is just "yes" stays a confirm even though
// it follows an order in the conversation.
func TestClassifyPriority(t *testing.T) {
	if got := Classify("track 1x2"); got != IntentTrack {
		t.Errorf("track prefix must beat the order pattern, got %q", got)
	}
	if got := Classify("menu"); got != IntentMenu {
		t.Errorf("exact menu must beat everything, got %q", got)
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  CONFIRM \n"); got != "confirm" {
		t.Errorf("Normalize = %q, want %q", got, "confirm")
	}
}
