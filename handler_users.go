package main

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/satori/go.uuid"
)

// Login logs a user into the server.
// You can request this method with the following cURL request:
//
//	curl -k -X GET --url https://localhost:4430/1.0/login
//	  --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func Login(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (interface{}, *gz.ErrMsg) {
	// Sanity check: Make sure that we have a user with the identity contained in
	// the JWT.
	identity, ok := gz.GetUserIdentity(r)
	if !ok {
		return nil, gz.NewErrorMessage(gz.ErrorAuthJWTInvalid)
	}

	return users.GetUserByIdentity(tx, identity)
}

// UserCreate creates a new user. Invoked on a user's first login.
// You can request this method with the following cURL request:
//
//	curl -k -H "Content-Type: application/json" -X POST -d '{"name":"John Doe",
//	  "username":"test-username", "email":"johndoe@example.com"}'
//	  https://localhost:4430/1.0/users
//	  --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func UserCreate(tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (interface{}, *gz.ErrMsg) {

	var u users.User
	if em := ParseStruct(&u, r, false); em != nil {
		return nil, em
	}

	if identity, ok := gz.GetUserIdentity(r); ok {
		u.Identity = &identity
	} else {
		return nil, gz.NewErrorMessage(gz.ErrorAuthJWTInvalid)
	}

	return users.CreateUser(r.Context(), tx, &u)
}

// UserList returns a list with all users. Only system admins can request it.
// It follows the func signature defined by type "pagHandler".
func UserList(p *gz.PaginationRequest, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg) {

	if user == nil || !globals.Permissions.IsSystemAdmin(*user.Username) {
		return nil, nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	return users.UserList(p, tx, user)
}

// UserIndex returns a single user
// You can request this method with the following cURL request:
//
//	curl -k -X GET --url https://localhost:4430/1.0/users/{username}
//	  --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
//
// Or you can use the following request for retrieving only the public data:
//
//	curl -k -X GET --url https://localhost:4430/1.0/users/{username}
func UserIndex(username string, jwtUser *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	user, em := users.ByUsername(tx, username, false)
	if em != nil {
		return nil, em
	}

	response := users.CreateUserResponse(user, jwtUser)
	return response, nil
}

// UserUpdate modifies a user profile. The request is a multipart form with
// the optional fields and an optional "file" avatar image.
// You can request this method with the following cURL request:
//
//	curl -k -X PATCH -F "name=New Name" -F "file=@<full-path-to-file>"
//	  https://localhost:4430/1.0/users/{username}
//	  --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func UserUpdate(username string, jwtUser *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}

	var uu users.UpdateUserInput
	if em := ParseStruct(&uu, r, true); em != nil {
		return nil, em
	}
	if uu.IsEmpty() && image == nil {
		return nil, gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	}

	var avatarURL *string
	if image != nil {
		avatarURL, em = uploadProfileImage(r.Context(), "avatars", username, image)
		if em != nil {
			return nil, em
		}
	}

	return users.UpdateUser(r.Context(), tx, username, &uu, avatarURL, jwtUser)
}

// UserRemove removes a user
// You can request this method with the following cURL request:
//
//	curl -k -X DELETE --url https://localhost:4430/1.0/users/{username}
//	  --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func UserRemove(username string, jwtUser *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	response, em := users.RemoveUser(r.Context(), tx, username, jwtUser)
	if em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return response, nil
}

// uploadProfileImage stores a profile image (avatar or pet photo) in object
// storage and returns its public URL.
func uploadProfileImage(ctx context.Context, bucket, owner string,
	image *plants.ImageFile) (*string, *gz.ErrMsg) {

	if globals.Bucket == nil {
		return nil, gz.NewErrorMessage(gz.ErrorUnexpected)
	}
	filePath := fmt.Sprintf("%s/%s%s", owner, uuid.NewV4().String(),
		strings.ToLower(filepath.Ext(image.Name)))
	url, err := globals.Bucket.Upload(ctx, image.Body, bucket, filePath)
	if err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}
	return url, nil
}
