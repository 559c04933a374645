package users

import (
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
)

// User information
//
// swagger:model
type User struct {
	gorm.Model

	// Identity is the subject claim of the auth provider's JWT. It is how a
	// request is mapped back to a user row.
	Identity *string `json:"identity,omitempty"`

	// Person name
	Name *string `json:"name,omitempty"`

	// Username is unique in the community.
	Username *string `gorm:"not null;unique" json:"username,omitempty" validate:"required,min=3,alphanum,notinblacklist"`

	Email *string `json:"email,omitempty" validate:"required,email"`

	// AvatarURL points at the user's avatar in object storage.
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// Users is an slice of User
type Users []User

// UserResponse stores user information used in REST responses.
//
// swagger:model
type UserResponse struct {
	Name      string `json:"name"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	// private
	Email string `json:"email,omitempty"`
	// private
	ID uint `json:"id,omitempty"`
	// True if the user is a content moderator
	Admin bool `json:"admin"`
	// True if the user is a system administrator
	SysAdmin bool `json:"sysAdmin"`
}

// UserResponses is a slice of UserResponse
// swagger:model
type UserResponses []UserResponse

// UpdateUserInput encapsulates data that can be updated in an user
type UpdateUserInput struct {
	// Optional name
	Name *string `json:"name,omitempty"`
	// Optional email
	Email *string `json:"email" validate:"omitempty,email"`
}

// IsEmpty returns true is the struct is empty.
func (uu UpdateUserInput) IsEmpty() bool {
	return uu.Name == nil && uu.Email == nil
}

// ByUsername queries a user by username.
func ByUsername(tx *gorm.DB, username string, deleted bool) (*User, *gz.ErrMsg) {
	q := tx
	if deleted {
		// Allow to search in already deleted users
		q = q.Unscoped()
	}
	var user User
	if q.Where("username = ?", username).First(&user); q.Error != nil && !q.RecordNotFound() {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
	}
	if user.Username == nil {
		return nil, gz.NewErrorMessage(gz.ErrorUserUnknown)
	}
	return &user, nil
}

// ByIdentity queries a user by identity (the JWT subject claim).
func ByIdentity(tx *gorm.DB, identity string, deleted bool) (*User, *gz.ErrMsg) {
	q := tx
	if deleted {
		q = q.Unscoped()
	}
	var user User
	if q.Where("identity = ?", identity).First(&user); q.Error != nil && !q.RecordNotFound() {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, q.Error)
	}
	if user.Identity == nil {
		return nil, gz.NewErrorMessage(gz.ErrorAuthNoUser)
	}
	return &user, nil
}
