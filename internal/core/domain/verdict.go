package domain

import (
	"fmt"
	"strings"
)

// Verdict is a binary judgment returned by the oracle. The contract is
// exactly one of the two literal lowercase tokens; anything else is a
// contract violation the caller must not silently coerce.
type Verdict string

const (
	VerdictYes Verdict = "yes"
	VerdictNo  Verdict = "no"
)

// ParseVerdict validates an oracle response against the yes/no contract.
// Surrounding whitespace and case drift are tolerated; any other text is
// an ErrOracleContract.
func ParseVerdict(raw string) (Verdict, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes":
		return VerdictYes, nil
	case "no":
		return VerdictNo, nil
	default:
		return "", WrapError(ErrOracleContract, "parse verdict",
			fmt.Errorf("expected yes/no, got %q", truncate(raw, 80)))
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
