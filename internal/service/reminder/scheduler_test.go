package reminder

import "testing"

func TestCronSpecFromWakeTime(t *testing.T) {
	cases := []struct {
		wake string
		want string
	}{
		{"09:00", "0 9 * * *"},
		{"22:45", "45 22 * * *"},
		{"", "0 9 * * *"},
	}
	for _, tc := range cases {
		got, err := cronSpec(tc.wake)
		if err != nil {
			t.Fatalf("cronSpec(%q) err: %v", tc.wake, err)
		}
		if got != tc.want {
			t.Fatalf("cronSpec(%q) = %q, want %q", tc.wake, got, tc.want)
		}
	}
}

func TestCronSpecRejectsMalformedTime(t *testing.T) {
	for _, wake := range []string{"25:00", "09:61", "morning"} {
		if _, err := cronSpec(wake); err == nil {
			t.Fatalf("cronSpec(%q): expected error", wake)
		}
	}
}
