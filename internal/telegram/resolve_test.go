package telegram

import "testing"

func TestResolveRef(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		want any
	}{
		{"self sentinel", "self", "me"},
		{"me sentinel", "me", "me"},
		{"self uppercase", "Self", "me"},
		{"handle", "@alice", "@alice"},
		{"bare handle", "alice", "alice"},
		{"phone", "+15551234567", "+15551234567"},
		{"numeric id", "123456789", int64(123456789)},
		{"negative chat id", "-1001234567890", int64(-1001234567890)},
		{"whitespace trimmed", "  @alice ", "@alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveRef(tt.ref); got != tt.want {
				t.Errorf("resolveRef(%q) = %v (%T), want %v (%T)", tt.ref, got, got, tt.want, tt.want)
			}
		})
	}
}
