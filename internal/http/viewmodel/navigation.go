// Package viewmodel builds the client-facing descriptors derived from a
// resolved identity. Everything here is pure: no I/O, no clocks.
package viewmodel

import (
	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

// ActionKind tells the frontend how to render a nav action.
type ActionKind string

const (
	ActionLink     ActionKind = "link"
	ActionButton   ActionKind = "button"
	ActionDropdown ActionKind = "dropdown"
)

// NavItem is one sub-menu entry under a dropdown action.
type NavItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
}

// NavAction is a rendered call-to-action: a plain link, a styled button, or
// a dropdown trigger carrying its sub-items.
type NavAction struct {
	Kind  ActionKind `json:"kind"`
	Label string     `json:"label"`
	Path  string     `json:"path,omitempty"`
	Items []NavItem  `json:"items,omitempty"`
}

// Navigation is the full nav descriptor for the current actor: which named
// sections are visible, the primary action, and the logout action when one
// applies. Frontends render it verbatim; gating decisions are made here, once.
type Navigation struct {
	Kind      domainauth.ActorKind `json:"kind"`
	UserLabel string               `json:"user_label,omitempty"`

	ShowVisaServices bool `json:"show_visa_services"`
	ShowApplications bool `json:"show_applications"`
	ShowCheckStatus  bool `json:"show_check_status"`
	ShowContact      bool `json:"show_contact"`

	Primary   NavAction  `json:"primary"`
	Secondary *NavAction `json:"secondary,omitempty"`
}

// BuildNavigation maps a resolved identity to its navigation descriptor.
// Guests see the public site with a sign-in link, clients their portal
// dropdown, staff the admin dropdown. The management entries appear only for
// roles that unlock them; the role string is normalized first so "Admin "
// gates the same as "admin".
func BuildNavigation(identity domainauth.Identity) Navigation {
	switch identity.Kind {
	case domainauth.ActorAdmin:
		if identity.Admin != nil {
			return adminNavigation(*identity.Admin)
		}
	case domainauth.ActorClient:
		if identity.Client != nil {
			return clientNavigation(*identity.Client)
		}
	case domainauth.ActorGuest:
	}
	return guestNavigation()
}

func logoutAction() *NavAction {
	return &NavAction{Kind: ActionButton, Label: "Logout"}
}

func guestNavigation() Navigation {
	return Navigation{
		Kind:             domainauth.ActorGuest,
		ShowVisaServices: true,
		ShowApplications: true,
		ShowCheckStatus:  true,
		ShowContact:      true,
		Primary:          NavAction{Kind: ActionLink, Label: "Sign In", Path: "/login"},
	}
}

func clientNavigation(p domainauth.ClientProfile) Navigation {
	return Navigation{
		Kind:      domainauth.ActorClient,
		UserLabel: p.FullName(),
		// Signed-in applicants keep the public site minus the status-check
		// form; their portal shows live status already.
		ShowVisaServices: true,
		ShowApplications: true,
		ShowCheckStatus:  false,
		ShowContact:      true,
		Primary: NavAction{
			Kind:  ActionDropdown,
			Label: "My Portal",
			Path:  "/portal",
			Items: []NavItem{
				{Label: "My Application", Path: "/portal", Icon: "folder"},
				{Label: "Documents", Path: "/portal/documents", Icon: "upload"},
				{Label: "Payments", Path: "/portal/payments", Icon: "credit-card"},
				{Label: "Messages", Path: "/portal/messages", Icon: "mail"},
			},
		},
		Secondary: logoutAction(),
	}
}

func adminNavigation(p domainauth.AdminProfile) Navigation {
	// Staff role gets the dashboard entry only; the management entries are
	// unlocked by the normalized role.
	items := []NavItem{
		{Label: "Dashboard", Path: "/admin", Icon: "dashboard"},
	}
	if p.Role.CanManage() {
		items = append(items,
			NavItem{Label: "Admin Management", Path: "/admin/admins", Icon: "users"},
			NavItem{Label: "Checklist Management", Path: "/admin/checklist", Icon: "list"},
		)
	}
	return Navigation{
		Kind:      domainauth.ActorAdmin,
		UserLabel: p.FullName(),
		Primary: NavAction{
			Kind:  ActionDropdown,
			Label: "Admin",
			Path:  "/admin",
			Items: items,
		},
		Secondary: logoutAction(),
	}
}
