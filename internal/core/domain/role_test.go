package domain

import (
	"reflect"
	"testing"
)

func testCatalog() []DocumentSource {
	return []DocumentSource{
		{Name: "novacorp_employee_handbook.pdf", AccessLevel: AccessPublic},
		{Name: "novacorp_managers_guide.pdf", AccessLevel: AccessManager},
		{Name: "novacorp_hr_legal_manual.pdf", AccessLevel: AccessHR},
	}
}

func TestParseRole(t *testing.T) {
	cases := []struct {
		userID string
		want   Role
	}{
		{"employee", RoleEmployee},
		{"manager", RoleManager},
		{"hr", RoleHR},
		{"  HR  ", RoleHR},
		{"EMP123", RoleEmployee},
		{"emp-jane", RoleEmployee},
		{"MGR789", RoleManager},
		{"HR456", RoleHR},
		{"unknown-user", RoleEmployee},
		{"", RoleEmployee},
		{"Employee", RoleEmployee},
	}
	for _, tc := range cases {
		if got := ParseRole(tc.userID); got != tc.want {
			t.Fatalf("ParseRole(%q) = %s, want %s", tc.userID, got, tc.want)
		}
	}
}

func TestAuthorizedAccessLevelsAreMonotonic(t *testing.T) {
	policy := NewAccessPolicy(testCatalog())

	employee := policy.AuthorizedAccessLevels(RoleEmployee)
	manager := policy.AuthorizedAccessLevels(RoleManager)
	hr := policy.AuthorizedAccessLevels(RoleHR)

	if !reflect.DeepEqual(employee, []AccessLevel{AccessPublic}) {
		t.Fatalf("employee levels = %v", employee)
	}
	if !reflect.DeepEqual(manager, []AccessLevel{AccessPublic, AccessManager}) {
		t.Fatalf("manager levels = %v", manager)
	}
	if !reflect.DeepEqual(hr, []AccessLevel{AccessPublic, AccessManager, AccessHR}) {
		t.Fatalf("hr levels = %v", hr)
	}
}

func TestAllowedSourcesFollowCatalogOrder(t *testing.T) {
	policy := NewAccessPolicy(testCatalog())

	if got := policy.AllowedSources(RoleEmployee); !reflect.DeepEqual(got, []string{"novacorp_employee_handbook.pdf"}) {
		t.Fatalf("employee sources = %v", got)
	}
	if got := policy.AllowedSources(RoleHR); !reflect.DeepEqual(got, []string{
		"novacorp_employee_handbook.pdf",
		"novacorp_managers_guide.pdf",
		"novacorp_hr_legal_manual.pdf",
	}) {
		t.Fatalf("hr sources = %v", got)
	}
}

func TestSourceAccessible(t *testing.T) {
	policy := NewAccessPolicy(testCatalog())

	if policy.SourceAccessible(RoleEmployee, "novacorp_hr_legal_manual.pdf") {
		t.Fatalf("employee must not see the hr legal manual")
	}
	if policy.SourceAccessible(RoleManager, "novacorp_hr_legal_manual.pdf") {
		t.Fatalf("manager must not see the hr legal manual")
	}
	if !policy.SourceAccessible(RoleManager, "novacorp_managers_guide.pdf") {
		t.Fatalf("manager must see the managers guide")
	}
	if !policy.SourceAccessible(RoleHR, "novacorp_hr_legal_manual.pdf") {
		t.Fatalf("hr must see the hr legal manual")
	}
	if policy.SourceAccessible(RoleHR, "unknown.pdf") {
		t.Fatalf("unknown sources are never accessible")
	}
}
