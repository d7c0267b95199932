package auth

// Package auth contains domain-level types for identity resolution.
// It is pure and free of framework/adapter concerns.

import "strings"

// ActorKind identifies which credential source the current identity came from.
// Keep string form for easy persistence and JSON payloads.
type ActorKind string

const (
	ActorGuest  ActorKind = "guest"
	ActorClient ActorKind = "client"
	ActorAdmin  ActorKind = "admin"
)

// AdminRole is the staff role string carried on an admin profile.
// Valid values are defined as constants below; unknown strings are preserved
// but grant no management access.
type AdminRole string

const (
	RoleStaff      AdminRole = "staff"
	RoleAdmin      AdminRole = "admin"
	RoleSuperAdmin AdminRole = "super_admin"
)

// NormalizeAdminRole trims and lowercases a role string so that values like
// "Admin " gate the same way as "admin".
func NormalizeAdminRole(v string) AdminRole {
	return AdminRole(strings.ToLower(strings.TrimSpace(v)))
}

// CanManage reports whether the role unlocks the management surfaces
// (checklist options, admin accounts). Staff never qualifies.
func (r AdminRole) CanManage() bool {
	switch NormalizeAdminRole(string(r)) {
	case RoleAdmin, RoleSuperAdmin:
		return true
	default:
		return false
	}
}

// ClientProfile is the minimal applicant projection used for display.
// It carries no authorization weight beyond proving the application row exists.
type ClientProfile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// FullName concatenates first and last name for UI labeling.
func (p ClientProfile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// AdminProfile is the staff profile returned by the admin credential source.
type AdminProfile struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       AdminRole `json:"role"`
	Department string    `json:"department,omitempty"`
}

// FullName concatenates first and last name for UI labeling.
func (p AdminProfile) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(p.FirstName) + " " + strings.TrimSpace(p.LastName))
}

// Identity is the resolved actor for the current device session. Exactly one
// of Client/Admin is set for the matching kind; both are nil for a guest, so
// downstream code cannot read admin-only fields off a client identity.
type Identity struct {
	Kind   ActorKind      `json:"kind"`
	Client *ClientProfile `json:"client,omitempty"`
	Admin  *AdminProfile  `json:"admin,omitempty"`
}

// Guest returns the unauthenticated identity.
func Guest() Identity {
	return Identity{Kind: ActorGuest}
}

// ClientIdentity wraps an applicant profile as a resolved identity.
func ClientIdentity(p ClientProfile) Identity {
	return Identity{Kind: ActorClient, Client: &p}
}

// AdminIdentity wraps a staff profile as a resolved identity.
func AdminIdentity(p AdminProfile) Identity {
	return Identity{Kind: ActorAdmin, Admin: &p}
}

// IsAuthenticated reports whether the identity is anything other than guest.
func (i Identity) IsAuthenticated() bool {
	return i.Kind == ActorClient || i.Kind == ActorAdmin
}

// ActorID returns the opaque identifier for the active credential:
// the application id for a client, the admin-user id for an admin,
// and "" for a guest.
func (i Identity) ActorID() string {
	switch i.Kind {
	case ActorClient:
		if i.Client != nil {
			return i.Client.ID
		}
	case ActorAdmin:
		if i.Admin != nil {
			return i.Admin.ID
		}
	case ActorGuest:
	}
	return ""
}

// CanManage reports whether the identity may reach the role-gated
// management surfaces. Only admin identities with a qualifying role pass.
func (i Identity) CanManage() bool {
	return i.Kind == ActorAdmin && i.Admin != nil && i.Admin.Role.CanManage()
}

// OwnsApplication reports whether the identity may read records scoped to
// the given application: staff see every application, a client only its own.
func (i Identity) OwnsApplication(applicationID string) bool {
	if i.Kind == ActorAdmin && i.Admin != nil {
		return true
	}
	return i.Kind == ActorClient && i.Client != nil &&
		applicationID != "" && i.Client.ID == applicationID
}
