package main

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/users"
)

// PetList returns the list of pets registered by a user. The returned value
// will be of type "users.Pets".
// It follows the func signature defined by type "pagHandler".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/{username}/pets
func PetList(p *gz.PaginationRequest, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg) {

	username, valid := mux.Vars(r)["username"]
	if !valid {
		return nil, nil, gz.NewErrorMessage(gz.ErrorUserNotInRequest)
	}

	return users.PetList(p, tx, username)
}

// PetCreate registers a pet on the requesting user's profile.
// The request is a multipart form with the pet fields and an optional "file"
// photo.
// You can request this method with the following curl request:
//   curl -k -X POST -F "name=Mochi" -F "file=@<full-path-to-file>"
//     --url https://localhost:4430/1.0/pets
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PetCreate(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	// Extract the user associated with the JWT. Registering a pet requires a
	// signed-in user.
	user, ok, errMsg := getUserFromJWT(tx, r)
	if !ok {
		return nil, &errMsg
	}

	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}

	var in users.CreatePetInput
	if em := ParseStruct(&in, r, true); em != nil {
		return nil, em
	}

	var imageURL *string
	if image != nil {
		imageURL, em = uploadProfileImage(r.Context(), "pets", *user.Username, image)
		if em != nil {
			return nil, em
		}
	}

	pet, em := users.CreatePet(r.Context(), tx, &in, imageURL, user)
	if em != nil {
		return nil, em
	}

	w.WriteHeader(http.StatusCreated)
	return pet, nil
}

// PetUpdate modifies a pet. Only the owner can update a pet.
// You can request this method with the following curl request:
//   curl -k -X PATCH -F "name=Mochi II"
//     --url https://localhost:4430/1.0/pets/{pet}
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PetUpdate(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}

	var in users.UpdatePetInput
	if em := ParseStruct(&in, r, true); em != nil {
		return nil, em
	}
	if in.IsEmpty() && image == nil {
		return nil, gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	}

	var imageURL *string
	if image != nil {
		imageURL, em = uploadProfileImage(r.Context(), "pets", *user.Username, image)
		if em != nil {
			return nil, em
		}
	}

	return users.UpdatePet(r.Context(), tx, id, &in, imageURL, user)
}

// PetRemove removes a pet. Only the owner can remove a pet.
// You can request this method with the following curl request:
//   curl -k -X DELETE --url https://localhost:4430/1.0/pets/{pet}
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PetRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	pet, em := users.RemovePet(r.Context(), tx, id, user)
	if em != nil {
		return nil, em
	}
	return pet, nil
}
