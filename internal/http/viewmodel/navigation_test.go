package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/glide-ceylon/gidz-uni-path-sub000/internal/domain/auth"
)

func subMenuPaths(nav Navigation) []string {
	paths := make([]string, 0, len(nav.Primary.Items))
	for _, item := range nav.Primary.Items {
		paths = append(paths, item.Path)
	}
	return paths
}

func TestBuildNavigation_Guest(t *testing.T) {
	nav := BuildNavigation(domainauth.Guest())

	assert.Equal(t, domainauth.ActorGuest, nav.Kind)
	assert.Empty(t, nav.UserLabel)
	assert.True(t, nav.ShowVisaServices)
	assert.True(t, nav.ShowApplications)
	assert.True(t, nav.ShowCheckStatus)
	assert.True(t, nav.ShowContact)
	assert.Equal(t, ActionLink, nav.Primary.Kind)
	assert.Equal(t, "/login", nav.Primary.Path)
	assert.Empty(t, nav.Primary.Items)
	assert.Nil(t, nav.Secondary, "guests have no logout action")
}

func TestBuildNavigation_Client(t *testing.T) {
	nav := BuildNavigation(domainauth.ClientIdentity(domainauth.ClientProfile{
		ID:        "app-1",
		FirstName: "Amara",
		LastName:  "Perera",
	}))

	assert.Equal(t, domainauth.ActorClient, nav.Kind)
	assert.Equal(t, "Amara Perera", nav.UserLabel)
	assert.False(t, nav.ShowCheckStatus, "portal shows live status already")
	assert.True(t, nav.ShowContact)
	assert.Equal(t, ActionDropdown, nav.Primary.Kind)
	assert.Contains(t, subMenuPaths(nav), "/portal")
	assert.NotContains(t, subMenuPaths(nav), "/admin/admins")
	require.NotNil(t, nav.Secondary)
	assert.Equal(t, ActionButton, nav.Secondary.Kind)
}

func TestBuildNavigation_StaffDashboardOnly(t *testing.T) {
	nav := BuildNavigation(domainauth.AdminIdentity(domainauth.AdminProfile{
		FirstName: "Nuwan",
		Role:      domainauth.RoleStaff,
	}))

	assert.Equal(t, domainauth.ActorAdmin, nav.Kind)
	assert.Equal(t, ActionDropdown, nav.Primary.Kind)
	assert.Equal(t, []string{"/admin"}, subMenuPaths(nav), "staff sees the dashboard entry only")
	require.NotNil(t, nav.Secondary)
}

func TestBuildNavigation_ManagementRoles(t *testing.T) {
	for _, role := range []string{"admin", "super_admin", "Admin ", " SUPER_ADMIN", "ADMIN"} {
		nav := BuildNavigation(domainauth.AdminIdentity(domainauth.AdminProfile{
			Role: domainauth.AdminRole(role),
		}))

		paths := subMenuPaths(nav)
		assert.Contains(t, paths, "/admin/admins", "role %q should unlock management", role)
		assert.Contains(t, paths, "/admin/checklist", "role %q should unlock management", role)
	}
}

func TestBuildNavigation_UnknownRoleGetsNoManagement(t *testing.T) {
	nav := BuildNavigation(domainauth.AdminIdentity(domainauth.AdminProfile{
		Role: "administrator",
	}))

	assert.NotContains(t, subMenuPaths(nav), "/admin/admins")
}

func TestBuildNavigation_Deterministic(t *testing.T) {
	identity := domainauth.AdminIdentity(domainauth.AdminProfile{
		FirstName: "Amal",
		Role:      domainauth.RoleSuperAdmin,
	})

	assert.Equal(t, BuildNavigation(identity), BuildNavigation(identity))
}

func TestBuildNavigation_MalformedIdentityFallsToGuest(t *testing.T) {
	// Kind says admin but no profile attached; render the safe default.
	nav := BuildNavigation(domainauth.Identity{Kind: domainauth.ActorAdmin})

	require.Equal(t, domainauth.ActorGuest, nav.Kind)
	assert.Nil(t, nav.Secondary)
}
