package model

import "testing"

func TestIntentionString(t *testing.T) {
	tests := []struct {
		intention Intention
		want      string
	}{
		{IntentionIdle, "IDLE"},
		{IntentionActive, "ACTIVE"},
		{IntentionMoveTo, "MOVE_TO"},
		{Intention(999), "UNKNOWN"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.intention.String(); got != tt.want {
				t.Errorf("Intention.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIntentionText(t *testing.T) {
	for _, in := range []Intention{IntentionIdle, IntentionActive, IntentionMoveTo} {
		text, err := in.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", in, err)
		}
		var out Intention
		if err := out.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if out != in {
			t.Errorf("round trip %v -> %q -> %v", in, text, out)
		}
	}

	var i Intention
	if err := i.UnmarshalText([]byte("SLEEP")); err == nil {
		t.Error("UnmarshalText(SLEEP) succeeded, want error")
	}
}
