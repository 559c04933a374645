package main

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
)

// PlantList returns the list of plants. The returned value will be of type
// "plants.PlantResponses".
// It follows the func signature defined by type "searchFnHandler".
// You can request this method with the following curl request:
//     curl -k -X GET --url https://localhost:4430/1.0/plants
// or  curl -k -X GET --url https://localhost:4430/1.0/plants?q=aloe&sort_by=evaluation_desc&filter=safe
func PlantList(p *gz.PaginationRequest, order, search, filter string,
	user *users.User, tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg) {

	ps := &plants.Service{}
	return ps.PlantList(p, tx, search, order, filter)
}

// PlantIndex returns a single plant with its derived counters and the
// requesting user's relationship flags. The returned value will be of type
// "plants.PlantDetailResponse".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/plants/{plant}
func PlantIndex(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	return (&plants.Service{}).GetPlant(tx, id, user)
}

// PlantUpdate modifies an existing plant.
// You can request this method with the following curl request:
//   curl -k -H "Content-Type: application/json" -X PATCH
//     --url https://localhost:4430/1.0/plants/{plant} -d '{"description":"..."}'
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantUpdate(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	var up plants.UpdatePlant
	if em := ParseStruct(&up, r, false); em != nil {
		return nil, em
	}

	plant, em := (&plants.Service{}).UpdatePlant(r.Context(), tx, id, &up, user)
	if em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	return plant, nil
}

// PlantRemove removes a plant.
// You can request this method with the following curl request:
//   curl -k -X DELETE --url https://localhost:4430/1.0/plants/{plant}
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if em := (&plants.Service{}).RemovePlant(r.Context(), tx, id, user); em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return map[string]interface{}{"success": true}, nil
}

// PlantImageCreate appends a photo to an existing plant.
// You can request this method with the following curl request:
//   curl -k -X POST -F "file=@<full-path-to-file>"
//     --url https://localhost:4430/1.0/plants/{plant}/images
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantImageCreate(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}
	if image == nil {
		return nil, gz.NewErrorMessage(gz.ErrorFormMissingFiles)
	}

	img, em := (&plants.Service{}).AddPlantImage(r.Context(), tx, id, image, user)
	if em != nil {
		return nil, em
	}

	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}
	return img, nil
}

// PlantFavoriteCreate adds a plant to the requesting user's favorites.
// You can request this method with the following curl request:
//   curl -k -X POST --url https://localhost:4430/1.0/plants/{plant}/favorites
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantFavoriteCreate(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if _, em := (&plants.Service{}).CreatePlantFavorite(tx, id, user); em != nil {
		return nil, em
	}
	return map[string]interface{}{"success": true}, nil
}

// PlantFavoriteRemove removes a plant from the requesting user's favorites.
// You can request this method with the following curl request:
//   curl -k -X DELETE --url https://localhost:4430/1.0/plants/{plant}/favorites
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantFavoriteRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if em := (&plants.Service{}).RemovePlantFavorite(tx, id, user); em != nil {
		return nil, em
	}
	return map[string]interface{}{"success": true}, nil
}

// PlantHaveCreate marks a plant as owned by the requesting user.
// You can request this method with the following curl request:
//   curl -k -X POST --url https://localhost:4430/1.0/plants/{plant}/have
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantHaveCreate(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if _, em := (&plants.Service{}).CreatePlantHave(tx, id, user); em != nil {
		return nil, em
	}
	return map[string]interface{}{"success": true}, nil
}

// PlantHaveRemove unmarks a plant as owned by the requesting user.
// You can request this method with the following curl request:
//   curl -k -X DELETE --url https://localhost:4430/1.0/plants/{plant}/have
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantHaveRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if em := (&plants.Service{}).RemovePlantHave(tx, id, user); em != nil {
		return nil, em
	}
	return map[string]interface{}{"success": true}, nil
}

// FavoritePlantList returns the list of plants favorited by a user. The
// returned value will be of type "plants.PlantResponses".
// It follows the func signature defined by type "pagHandler".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/{username}/favorites/plants
func FavoritePlantList(p *gz.PaginationRequest, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg) {

	username, valid := mux.Vars(r)["username"]
	if !valid {
		return nil, nil, gz.NewErrorMessage(gz.ErrorUserNotInRequest)
	}

	return (&plants.Service{}).FavoritePlantList(p, tx, username)
}
