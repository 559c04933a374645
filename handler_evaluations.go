package main

import (
	"net/http"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/evaluations"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
)

// PlantEvaluationList returns the list of evaluations of a plant, newest
// first. The returned value will be of type
// "evaluations.EvaluationResponses".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/plants/{plant}/evaluations
func PlantEvaluationList(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	// Prepare pagination
	pr, em := gz.NewPaginationRequest(r)
	if em != nil {
		return nil, em
	}

	// Get JWT user; it is ok for user to be nil
	user, ok, errMsg := getUserFromJWT(tx, r)
	if !ok && (errMsg.ErrCode != gz.ErrorAuthJWTInvalid &&
		errMsg.ErrCode != gz.ErrorAuthNoUser) {
		return nil, &errMsg
	}

	plantID, em := readID("plant", r)
	if em != nil {
		return nil, em
	}

	list, pagination, em := (&evaluations.Service{}).EvaluationList(pr, tx, plantID, user)
	if em != nil {
		return nil, em
	}

	if err := gz.WritePaginationHeaders(*pagination, w, r); err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
	}
	return list, nil
}

// AllEvaluationsList returns the list of every evaluation across all plants,
// newest first. Only moderators can request it.
// It follows the func signature defined by type "pagHandler".
// You can request this method with the following curl request:
//   curl -k -X GET --url https://localhost:4430/1.0/admin/evaluations
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func AllEvaluationsList(p *gz.PaginationRequest, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.PaginationResult, *gz.ErrMsg) {

	if user == nil || !globals.Permissions.IsAdmin(*user.Username) {
		return nil, nil, gz.NewErrorMessage(gz.ErrorUnauthorized)
	}

	return (&evaluations.Service{}).AllEvaluationList(p, tx, user)
}

// EvaluationCreate adds a safety report to a plant.
// The request is a multipart form with the polarity, an optional comment and
// optional "file" images.
// You can request this method with the following curl request:
//   curl -k -X POST -F "polarity=good" -F "comment=No issues after a year"
//     --url https://localhost:4430/1.0/plants/{plant}/evaluations
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func EvaluationCreate(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	// Extract the user associated with the JWT. Evaluating requires a
	// signed-in user.
	user, ok, errMsg := getUserFromJWT(tx, r)
	if !ok {
		return nil, &errMsg
	}

	plantID, em := readID("plant", r)
	if em != nil {
		return nil, em
	}

	images, em := getRequestImages(r)
	if em != nil {
		return nil, em
	}

	var ce evaluations.CreateEvaluation
	if em := ParseStruct(&ce, r, true); em != nil {
		return nil, em
	}

	response, em := (&evaluations.Service{}).CreateEvaluation(r.Context(), tx,
		plantID, ce, images, user)
	if em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err)
	}

	w.WriteHeader(http.StatusCreated)
	return response, nil
}

// EvaluationRemove removes an evaluation. Only the author or a moderator can
// remove it.
// You can request this method with the following curl request:
//   curl -k -X DELETE --url https://localhost:4430/1.0/evaluations/{evaluation}
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func EvaluationRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if em := (&evaluations.Service{}).RemoveEvaluation(r.Context(), tx, id, user); em != nil {
		return nil, em
	}

	// Commit the DB transaction.
	if err := tx.Commit().Error; err != nil {
		return nil, gz.NewErrorMessageWithBase(gz.ErrorDbDelete, err)
	}
	return map[string]interface{}{"success": true}, nil
}

// ReactionApply records the requesting user's reaction on an evaluation.
// An existing reaction with the other polarity is updated in place; sending
// the same polarity twice is a no-op. Reactions are undone with DELETE.
// You can request this method with the following curl request:
//   curl -k -H "Content-Type: application/json" -X POST
//     --url https://localhost:4430/1.0/evaluations/{evaluation}/reactions
//     -d '{"polarity":"good"}'
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func ReactionApply(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	var ar evaluations.ApplyReaction
	if em := ParseStruct(&ar, r, false); em != nil {
		return nil, em
	}

	reaction, em := (&evaluations.Service{}).ApplyUserReaction(r.Context(), tx,
		id, ar.Polarity, user)
	if em != nil {
		return nil, em
	}
	return reaction, nil
}

// ReactionRemove removes the requesting user's reaction from an evaluation.
// You can request this method with the following curl request:
//   curl -k -X DELETE
//     --url https://localhost:4430/1.0/evaluations/{evaluation}/reactions
//     --header 'authorization: Bearer <A_VALID_AUTH0_JWT_TOKEN>'
func ReactionRemove(id uint, user *users.User, tx *gorm.DB,
	w http.ResponseWriter, r *http.Request) (interface{}, *gz.ErrMsg) {

	if em := (&evaluations.Service{}).RemoveUserReaction(r.Context(), tx, id, user); em != nil {
		return nil, em
	}
	return map[string]interface{}{"success": true}, nil
}
