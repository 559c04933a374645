package permissions

import (
	"fmt"
	"github.com/casbin/casbin/v2"
	gormadapter "github.com/casbin/gorm-adapter/v2"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// Action - type int
type Action int

// Role - type int
type Role int

// A list of actions that can be performed
const (
	// Read-only
	Read Action = iota
	// Write
	Write
)

// Corresponding string value for an Action
var actionStr = []string{"read", "write"}

// String function will return the english name of the Action
func (a Action) String() string {
	return actionStr[a]
}

// ActionFrom returns the Action value corresponding to the given string. It will
// return -1 if not found.
func ActionFrom(str string) Action {
	if actionStr[0] == str {
		return Read
	} else if actionStr[1] == str {
		return Write
	}
	return -1
}

// A list of roles
const (
	// System admin role. Site operators; can do anything.
	SystemAdmin Role = iota
	// Admin role. Content moderators; can edit or remove any plant,
	// evaluation or user content.
	Admin
	// Member role. A regular signed-in user.
	Member
)

// Corresponding string value for a Role
var roleStr = []string{"sysadmin", "admin", "member"}

// String function will return the english name of the Role
func (r Role) String() string {
	return roleStr[r]
}

// RoleFrom returns the Role value corresponding to the given string.
func RoleFrom(str string) (Role, *gz.ErrMsg) {
	for i, s := range roleStr {
		if s == str {
			return Role(i), nil
		}
	}
	return -1, gz.NewErrorMessageWithArgs(gz.ErrorNameNotFound, nil, []string{"role:", str})
}

const (
	// PolicyUser is the index of 'user' in a casbin policy tuple
	PolicyUser = iota
	// PolicyResource is the index of 'resource' in a casbin policy tuple
	PolicyResource
	// PolicyAction is the index of 'action' in a casbin policy tuple
	PolicyAction
)

// Permissions struct contains a data object for interfacing with the
// permissions db.
type Permissions struct {
	data *permissionsObj
}

// Private permission data objects
type permissionsObj struct {
	adapter  *gormadapter.Adapter
	enforcer *casbin.Enforcer
}

// Global permission object
var gPermissionsObj *permissionsObj

// Init initializes permissions with an existing database connection
func (p *Permissions) Init(db *gorm.DB, sysAdmin string) error {

	// check if db connection and permission policy has been initialized or not
	if gPermissionsObj != nil {
		return nil
	}

	var adapter *gormadapter.Adapter

	adapter, _ = gormadapter.NewAdapterByDB(db)
	enforcer, _ := casbin.NewEnforcer("permissions/policy.conf", adapter)

	return p.InitWithEnforcerAndAdapter(enforcer, adapter, sysAdmin)
}

// InitWithEnforcerAndAdapter initializes permissions with a given pair of
// enforcer and adapter.
func (p *Permissions) InitWithEnforcerAndAdapter(e *casbin.Enforcer, a *gormadapter.Adapter, sysAdmin string) error {

	obj := &permissionsObj{
		enforcer: e,
		adapter:  a,
	}
	gPermissionsObj = obj
	p.data = gPermissionsObj

	p.Reload(sysAdmin)
	return nil
}

// Reload reloads all casbin data.
// sysAdmin argument can contain a list of usernames separated by comma.
func (p *Permissions) Reload(sysAdmin string) error {
	// Load the policy from DB.
	p.data.enforcer.LoadPolicy()
	p.setSystemAdmin(sysAdmin)
	return nil
}

// setSystemAdmin configures the system admin(s).
// sysAdmin argument can contain a list of usernames separated by comma.
func (p *Permissions) setSystemAdmin(sysAdmin string) {
	saRole := SystemAdmin.String()
	p.data.enforcer.DeleteRole(saRole)
	if sysAdmin != "" {
		users := gz.StrToSlice(sysAdmin)
		for _, u := range users {
			p.AddRoleForUser(u, saRole)
		}
	}
}

// IsSystemAdmin returns a bool indicating if the given user is a system admin.
func (p *Permissions) IsSystemAdmin(user string) bool {
	result, _ := p.data.enforcer.HasRoleForUser(user, SystemAdmin.String())
	return result
}

// IsAdmin returns a bool indicating if the given user is a content moderator.
// System admins are moderators too.
func (p *Permissions) IsAdmin(user string) bool {
	if p.IsSystemAdmin(user) {
		return true
	}
	result, _ := p.data.enforcer.HasRoleForUser(user, Admin.String())
	return result
}

// IsAuthorized checks if user has the permission to perform an action on a
// resource. Moderators are authorized on every resource.
func (p *Permissions) IsAuthorized(user, resource string, action Action) (bool, *gz.ErrMsg) {
	if p.IsAdmin(user) {
		return true, nil
	}

	valid, err := p.data.enforcer.Enforce(user, resource, action.String())
	if !valid || err != nil {
		return false, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}
	return true, nil
}

// AddPermission adds a user permission on a resource
func (p *Permissions) AddPermission(user, resource string, action Action) (bool, *gz.ErrMsg) {
	valid, err := p.data.enforcer.AddPermissionForUser(user, resource, action.String())
	if !valid || err != nil {
		return false, gz.NewErrorMessage(gz.ErrorUnexpected)
	}
	return true, nil
}

// RemovePermission removes a user permission on a resource
func (p *Permissions) RemovePermission(user, resource string, action Action) (bool, *gz.ErrMsg) {
	valid, err := p.data.enforcer.DeletePermissionForUser(user, resource, action.String())
	if !valid || err != nil {
		return false, gz.NewErrorMessage(gz.ErrorUnexpected)
	}
	return true, nil
}

// RemoveResource removes a resource and all policies involving the resource
func (p *Permissions) RemoveResource(resource string) (bool, *gz.ErrMsg) {
	// policy is formatted in casbin as (user, resource, action)
	// so the 1 in the arg below means resource.
	valid, err := p.data.enforcer.RemoveFilteredPolicy(PolicyResource, resource)
	if !valid || err != nil {
		return false, gz.NewErrorMessage(gz.ErrorUnexpected)
	}
	return true, nil
}

// HasRoleForUser checks and see if a user has the specified role
func (p *Permissions) HasRoleForUser(user, role string) bool {
	result, _ := p.data.enforcer.HasRoleForUser(user, role)
	return result
}

// AddRoleForUser adds a role for a user
func (p *Permissions) AddRoleForUser(user, role string) (bool, *gz.ErrMsg) {
	valid, _ := p.data.enforcer.HasRoleForUser(user, role)
	if valid {
		extra := fmt.Sprintf("Role [%s] exist for user [%s]", role, user)
		return false, gz.NewErrorMessageWithArgs(gz.ErrorResourceExists, nil, []string{extra})
	}

	added, _ := p.data.enforcer.AddRoleForUser(user, role)
	if !added {
		extra := fmt.Sprintf("Could not add role [%s] for user [%s]", role, user)
		return false, gz.NewErrorMessageWithArgs(gz.ErrorUnexpected, nil, []string{extra})
	}
	return true, nil
}

// RemoveRoleForUser removes a role from a user
func (p *Permissions) RemoveRoleForUser(user, role string) (bool, *gz.ErrMsg) {
	valid, err := p.data.enforcer.DeleteRoleForUser(user, role)
	if !valid || err != nil {
		return false, gz.NewErrorMessage(gz.ErrorUnexpected)
	}
	return true, nil
}

// RemoveUser removes all policies involving the user
func (p *Permissions) RemoveUser(user string) (bool, *gz.ErrMsg) {
	// remove user resource permissions
	p.data.enforcer.DeleteUser(user)
	// remove user roles
	p.data.enforcer.DeletePermissionsForUser(user)
	// the return results are not used as they don't necessarily mean
	// removal failed. A false value may just mean that the user has no
	// permissions or roles
	return true, nil
}

// DBTable returns the DB table used by casbin
func (p *Permissions) DBTable() *gormadapter.CasbinRule {
	return &gormadapter.CasbinRule{}
}
