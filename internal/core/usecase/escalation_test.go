package usecase

import (
	"strings"
	"testing"
	"time"

	"github.com/novacorp/hr-assistant/internal/core/domain"
)

func testEscalationPolicy(keywords ...string) *EscalationPolicy {
	policy := NewEscalationPolicy(keywords)
	policy.now = func() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }
	policy.newID = func() string { return "esc-test-1" }
	return policy
}

func TestEvaluateLowConfidenceEscalatesAllRoles(t *testing.T) {
	policy := testEscalationPolicy("harassment")

	for _, role := range []domain.Role{domain.RoleEmployee, domain.RoleManager, domain.RoleHR} {
		escalate, info := policy.Evaluate(role, "vacation days", "answer", 0.55)
		if !escalate {
			t.Fatalf("role %s: expected escalation at low confidence", role)
		}
		if info.Reason != "Low confidence score" {
			t.Fatalf("role %s: reason = %q", role, info.Reason)
		}
	}
}

func TestEvaluateSensitiveContentSparesHR(t *testing.T) {
	policy := testEscalationPolicy("harassment", "termination")

	escalate, info := policy.Evaluate(domain.RoleEmployee, "how do I report Harassment?", "answer", 0.9)
	if !escalate || info.Reason != "Sensitive content detected" {
		t.Fatalf("employee: escalate=%v info=%+v", escalate, info)
	}

	escalate, _ = policy.Evaluate(domain.RoleManager, "question", "the termination procedure says", 0.9)
	if !escalate {
		t.Fatalf("manager: expected escalation on sensitive answer")
	}

	escalate, info = policy.Evaluate(domain.RoleHR, "how do I report harassment?", "termination steps", 0.9)
	if escalate || info != nil {
		t.Fatalf("hr: expected no escalation, got escalate=%v info=%+v", escalate, info)
	}
}

func TestEvaluateCombinedReasons(t *testing.T) {
	policy := testEscalationPolicy("salary dispute")

	escalate, info := policy.Evaluate(domain.RoleEmployee, "my salary dispute", "", 0.2)
	if !escalate {
		t.Fatalf("expected escalation")
	}
	want := "Low confidence score, Sensitive content detected"
	if info.Reason != want {
		t.Fatalf("reason = %q, want %q", info.Reason, want)
	}
	if info.ID != "esc-test-1" {
		t.Fatalf("id = %q", info.ID)
	}
	if info.Timestamp.IsZero() {
		t.Fatalf("expected timestamp to be set")
	}
}

func TestEvaluateNoTriggers(t *testing.T) {
	policy := testEscalationPolicy("harassment")
	escalate, info := policy.Evaluate(domain.RoleEmployee, "how many vacation days do I get?", "answer", 0.9)
	if escalate || info != nil {
		t.Fatalf("expected no escalation, got escalate=%v info=%+v", escalate, info)
	}
}

func TestEvaluateBoundaryConfidence(t *testing.T) {
	policy := testEscalationPolicy()
	if escalate, _ := policy.Evaluate(domain.RoleEmployee, "q", "a", 0.6); escalate {
		t.Fatalf("confidence exactly at the floor must not escalate")
	}
	if escalate, _ := policy.Evaluate(domain.RoleEmployee, "q", "a", 0.5999); !escalate {
		t.Fatalf("confidence just below the floor must escalate")
	}
}

func TestKeywordMatchingIsCaseInsensitiveSubstring(t *testing.T) {
	policy := testEscalationPolicy("  Disciplinary Action  ")

	escalate, _ := policy.Evaluate(domain.RoleManager, "pending DISCIPLINARY ACTIONS for my report", "", 0.9)
	if !escalate {
		t.Fatalf("expected case-insensitive substring match")
	}
	if strings.Contains(policy.keywords[0], " Disciplinary") {
		t.Fatalf("keywords must be trimmed and lowercased, got %q", policy.keywords[0])
	}
}
