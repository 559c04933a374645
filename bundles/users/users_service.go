package users

import (
	"context"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/permissions"
)

// CreateUser creates a new User in the DB using the data from the given User
// struct. It is invoked on a user's first login, mapping the JWT identity to
// a public_users row.
// Returns a UserResponse.
func CreateUser(ctx context.Context, tx *gorm.DB, u *User) (*UserResponse, *gz.ErrMsg) {
	// Sanity check: Make sure that the identity (JWT) is not already used by
	// an active user.
	aUser, em := ByIdentity(tx, *u.Identity, false)
	if em != nil && em.ErrCode != gz.ErrorAuthNoUser {
		return nil, em
	}
	if aUser != nil {
		return nil, gz.NewErrorMessage(gz.ErrorResourceExists)
	}
	// Sanity check: Make sure that the claimed username was not already used,
	// even by removed users.
	taken, em := ByUsername(tx, *u.Username, true)
	if em != nil && em.ErrCode != gz.ErrorUserUnknown {
		return nil, em
	}
	if taken != nil {
		return nil, gz.NewErrorMessage(gz.ErrorResourceExists)
	}

	if err := tx.Create(&u).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	// New users start as regular members.
	if ok, em := globals.Permissions.AddRoleForUser(*u.Username,
		permissions.Member.String()); !ok {
		return nil, em
	}

	ur := CreateUserResponse(u, u)
	gz.LoggerFromContext(ctx).Info("A new user has been created. Username=",
		*u.Username, " Email=", *u.Email)

	return &ur, nil
}

// RemoveUser removes the given user. Returns a UserResponse with the removed user.
// The reqUser argument is the requesting user. It is used to check if the
// reqUser can perform the operation.
func RemoveUser(ctx context.Context, tx *gorm.DB, username string, reqUser *User) (*UserResponse, *gz.ErrMsg) {

	user, em := ByUsername(tx, username, false)
	if em != nil {
		return nil, em
	}

	// Make sure the JWT user is the same user to be removed, or an admin.
	if *user.Identity != *reqUser.Identity &&
		!globals.Permissions.IsAdmin(*reqUser.Username) {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	// Remove the user from the database (soft-delete). Their plants and
	// evaluations stay, attributed to the removed username.
	if err := tx.Delete(user).Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}

	ok, em := globals.Permissions.RemoveUser(*user.Username)
	if !ok {
		return nil, em
	}

	gz.LoggerFromContext(ctx).Info("User removed. Username=", *user.Username,
		" Email=", *user.Email)

	response := CreateUserResponse(user, reqUser)
	return &response, nil
}

// UpdateUser updates an user.
// Fields that can be currently updated: name, email, avatar.
// The reqUser argument is the requesting user. It is used to check if the
// reqUser can perform the operation.
func UpdateUser(ctx context.Context, tx *gorm.DB, username string,
	uu *UpdateUserInput, avatarURL *string, reqUser *User) (*UserResponse, *gz.ErrMsg) {

	// Sanity check: make sure the user exists
	user, em := ByUsername(tx, username, false)
	if em != nil {
		return nil, em
	}

	// Make sure the JWT user is the same user to be updated, or an admin.
	if *user.Identity != *reqUser.Identity &&
		!globals.Permissions.IsAdmin(*reqUser.Username) {
		return nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	upd := tx.Model(user)
	// Edit the fields, if present.
	if uu.Name != nil {
		upd.Update("Name", *uu.Name)
	}
	if uu.Email != nil {
		upd.Update("Email", *uu.Email)
	}
	if avatarURL != nil {
		upd.Update("AvatarURL", *avatarURL)
	}
	if upd.Error != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, upd.Error)
	}

	gz.LoggerFromContext(ctx).Info("User updated. Username=", *user.Username)

	ur := CreateUserResponse(user, reqUser)
	return &ur, nil
}

// UserList returns a list of paginated UserResponses.
func UserList(p *gz.PaginationRequest, tx *gorm.DB,
	reqUser *User) (*UserResponses, *gz.PaginationResult, *gz.ErrMsg) {
	// Get the users
	var us Users

	// Create the DB query
	q := tx.Model(&User{})

	pagination, err := gz.PaginateQuery(q, &us, *p)
	if err != nil {
		return nil, nil, gz.NewErrorMessageWithBase(gz.ErrorInvalidPaginationRequest, err)
	}
	if !pagination.PageFound {
		return nil, nil, gz.NewErrorMessage(gz.ErrorPaginationPageNotFound)
	}

	// Create UserReponse results
	responses := UserResponses{}
	for _, user := range us {
		u := user
		responses = append(responses, CreateUserResponse(&u, reqUser))
	}

	return &responses, pagination, nil
}

// GetUserByIdentity returns a user given an identity.
// This method will fail if the identify does not correspond to an active user.
func GetUserByIdentity(tx *gorm.DB, identity string) (*UserResponse, *gz.ErrMsg) {
	user, em := ByIdentity(tx, identity, false)
	if em != nil {
		return nil, em
	}

	ur := CreateUserResponse(user, user)
	return &ur, nil
}

// CreateUserResponse creates a new UserResponse struct based on the given
// User object.
// The returned UserResponse will also include user private fields if the
// requestor can access those
func CreateUserResponse(user, requestor *User) UserResponse {
	var response UserResponse

	// Public info
	response.Username = *user.Username
	if user.Name != nil {
		response.Name = *user.Name
	}
	if user.AvatarURL != nil {
		response.AvatarURL = *user.AvatarURL
	}
	response.Admin = globals.Permissions.IsAdmin(*user.Username)
	response.SysAdmin = false

	// Private data should be included if the user is the same as the requestor
	// or if the requestor is a sysAdmin.
	if requestor != nil {
		isSystemAdmin := globals.Permissions.IsSystemAdmin(*requestor.Username)
		isSameUser := *user.Identity == *requestor.Identity

		if isSystemAdmin && isSameUser {
			response.SysAdmin = true
		}

		if isSystemAdmin || isSameUser {
			if user.Email != nil {
				response.Email = *user.Email
			}
			response.ID = user.ID
		}
	}

	return response
}

// VerifyOwner verifies that the given 'user' arg is the same as the 'owner',
// or a content moderator when the action requires Write access.
func VerifyOwner(tx *gorm.DB, owner, user string,
	per permissions.Action) (bool, *gz.ErrMsg) {
	if owner == user {
		return true, nil
	}
	if per == permissions.Write && globals.Permissions.IsAdmin(user) {
		return true, nil
	}
	return false, gz.NewErrorMessage(gz.ErrorUnauthorized)
}

// CheckPermissions validates if the given user has the requested permission on
// the resource. The resource can be public or private, and that is extracted
// from the argument isPrivate.
func CheckPermissions(tx *gorm.DB, resource string, user *User, isPrivate bool,
	per permissions.Action) (bool, *gz.ErrMsg) {

	if !isPrivate && per == permissions.Read {
		return true, nil
	}

	if user == nil {
		if isPrivate || per != permissions.Read {
			return false, gz.NewErrorMessage(gz.ErrorUnauthorized)
		}
		// otherwise it should be public and with Read permission.
		return true, nil
	}
	// user is not nil
	// make sure the requesting user has the correct permissions
	if globals.Permissions.IsAdmin(*user.Username) {
		return true, nil
	}
	if ok, em := globals.Permissions.IsAuthorized(*user.Username, resource, per); !ok {
		return false, em
	}
	return true, nil
}
