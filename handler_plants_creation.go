package main

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/plants"
)

// PlantCreate registers a new plant.
// The request is a multipart form with the plant fields and an optional
// "file" image. A duplicate name is rejected with the existing plant id in
// the error extra info, so the frontend can link to it.
// You can request this method with the following curl request:
//   curl -k -X POST -F "name=Aloe Vera" -F "file=@<full-path-to-file>"
//     --url https://localhost:4430/1.0/plants
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func PlantCreate(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	// Extract the user associated with the JWT. Registration requires a
	// signed-in user.
	user, ok, errMsg := getUserFromJWT(tx, r)
	if !ok {
		return nil, &errMsg
	}

	// Parse the multipart form. This also populates r.Form with the value
	// fields.
	image, em := getRequestImage(r)
	if em != nil {
		return nil, em
	}

	var cp plants.CreatePlant
	if em := ParseStruct(&cp, r, true); em != nil {
		return nil, em
	}

	plant, em := (&plants.Service{}).CreatePlant(r.Context(), tx, cp, image, user)
	if em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	// Note: we commit the TX here on purpose, to be able to detect DB
	// errors before writing "data" to the response headers.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	w.WriteHeader(http.StatusCreated)
	return plant, nil
}
