package domain

import "testing"

func TestParseVerdictAcceptsTokenDrift(t *testing.T) {
	cases := []struct {
		raw  string
		want Verdict
	}{
		{"yes", VerdictYes},
		{"no", VerdictNo},
		{"Yes", VerdictYes},
		{"NO", VerdictNo},
		{"  yes\n", VerdictYes},
	}
	for _, tc := range cases {
		got, err := ParseVerdict(tc.raw)
		if err != nil {
			t.Fatalf("ParseVerdict(%q) error = %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("ParseVerdict(%q) = %s, want %s", tc.raw, got, tc.want)
		}
	}
}

func TestParseVerdictRejectsAnythingElse(t *testing.T) {
	for _, raw := range []string{"", "maybe", "yes.", "yes, the documents are relevant", "true", "1"} {
		_, err := ParseVerdict(raw)
		if !IsKind(err, ErrOracleContract) {
			t.Fatalf("ParseVerdict(%q): expected contract violation, got %v", raw, err)
		}
	}
}
