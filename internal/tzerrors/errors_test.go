package tzerrors

import "testing"

func TestErrorMessagesIncludeContext(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"config", &ConfigError{Reason: "bad type"}, "config error: bad type"},
		{"timing", &TimingError{Subsong: 2, Reason: "zero hz"}, "timing error (subsong 2): zero hz"},
		{"overflow", &OverflowError{Subsong: 1, Channel: 0, Reason: "too long"}, "overflow error (subsong 1, channel 0): too long"},
		{"capacity", &BitstreamCapacityError{Subsong: 0, Channel: 1, Capacity: 100, Needed: 120},
			"bitstream capacity error (subsong 0, channel 1): capacity 100 bits, needed 120 bits"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.err.Error(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestDivergenceErrorFormatsHex(t *testing.T) {
	err := &DivergenceError{Subsong: 1, Channel: 1, Expected: 0xff, Got: 0x10, Position: 42}
	want := "divergence error (subsong 1, channel 1) at position 42: expected 0x00000000000000ff, got 0x0000000000000010"
	if got := err.Error(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
