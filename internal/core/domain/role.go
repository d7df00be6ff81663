package domain

import "strings"

// Role is a caller's privilege class. Order matters: each role sees a
// superset of the sources visible to the roles before it.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
	RoleHR       Role = "hr"
)

// AccessLevel classifies a document source. A source has exactly one.
type AccessLevel string

const (
	AccessPublic  AccessLevel = "public"
	AccessManager AccessLevel = "manager"
	AccessHR      AccessLevel = "hr"
)

// ParseRole resolves a raw user identity to a role. It accepts either
// a direct role token or a legacy prefixed identifier (EMP123, MGR789,
// HR456). Anything unrecognized resolves to the least-privileged role;
// identity parsing never fails open.
func ParseRole(userID string) Role {
	id := strings.ToLower(strings.TrimSpace(userID))

	switch id {
	case "employee", "manager", "hr":
		return Role(id)
	}

	switch {
	case strings.HasPrefix(id, "emp"):
		return RoleEmployee
	case strings.HasPrefix(id, "mgr"):
		return RoleManager
	case strings.HasPrefix(id, "hr"):
		return RoleHR
	default:
		return RoleEmployee
	}
}

// DocumentSource identifies one ingested file and its access level.
type DocumentSource struct {
	Name        string      `yaml:"name"`
	AccessLevel AccessLevel `yaml:"access_level"`
}

// AccessPolicy maps roles to visible access levels and document sources.
// It is pure and total over the three roles; the allowed-source sets are
// derived from the catalog, never stored redundantly.
type AccessPolicy struct {
	catalog []DocumentSource
}

func NewAccessPolicy(catalog []DocumentSource) *AccessPolicy {
	sources := make([]DocumentSource, len(catalog))
	copy(sources, catalog)
	return &AccessPolicy{catalog: sources}
}

// AuthorizedAccessLevels returns the access levels visible to a role,
// ordered from least to most privileged.
func (p *AccessPolicy) AuthorizedAccessLevels(role Role) []AccessLevel {
	switch role {
	case RoleHR:
		return []AccessLevel{AccessPublic, AccessManager, AccessHR}
	case RoleManager:
		return []AccessLevel{AccessPublic, AccessManager}
	default:
		return []AccessLevel{AccessPublic}
	}
}

// AllowedSources returns the source names a role may retrieve from,
// in catalog order.
func (p *AccessPolicy) AllowedSources(role Role) []string {
	levels := make(map[AccessLevel]struct{})
	for _, level := range p.AuthorizedAccessLevels(role) {
		levels[level] = struct{}{}
	}

	out := make([]string, 0, len(p.catalog))
	for _, source := range p.catalog {
		if _, ok := levels[source.AccessLevel]; ok {
			out = append(out, source.Name)
		}
	}
	return out
}

// SourceAccessible reports whether a role may see the named source.
func (p *AccessPolicy) SourceAccessible(role Role, source string) bool {
	for _, allowed := range p.AllowedSources(role) {
		if allowed == source {
			return true
		}
	}
	return false
}
