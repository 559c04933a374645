package main

import (
	"github.com/gazebo-web/gz-go/v7"
	"github.com/nekosafe-web/plant-server/bundles/evaluations"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/vision"
)

// This module contains swagger specifics related to doc generation.
// The are defined as private to avoid issues with linter and swagger
// requesting conflicting comments on types.

/////////////////////////////////////////////////
///////  swagger responses
/////////////////////////////////////////////////

// Array of Plants
// swagger:response jsonPlants
type jsonPlants struct {
	// In: body
	Plants plants.PlantResponses
}

// Array of Evaluations
// swagger:response jsonEvaluations
type jsonEvaluations struct {
	// In: body
	Evaluations evaluations.EvaluationResponses
}

// Array of plant name candidates
// swagger:response jsonCandidates
type jsonCandidates struct {
	// In: body
	Candidates []vision.Candidate
}

/////////////////////////////////////////////////
///////  swagger Parameters
/////////////////////////////////////////////////

// swagger:parameters singleUser updateUser deleteUser listUserFavorites listUserPets
type userInPath struct {
	// in: path
	Username string `json:"username"`
}

// swagger:parameters singlePlant updatePlant deletePlant createPlantImage plantFavoriteCreate plantFavoriteRemove plantHaveCreate plantHaveRemove listEvaluations createEvaluation
type plantInPath struct {
	// Plant id
	// in: path
	Plant uint `json:"plant"`
}

// swagger:parameters deleteEvaluation reactionApply reactionRemove
type evaluationInPath struct {
	// Evaluation id
	// in: path
	Evaluation uint `json:"evaluation"`
}

// swagger:parameters updatePet deletePet
type petInPath struct {
	// Pet id
	// in: path
	Pet uint `json:"pet"`
}

// swagger:parameters singleArticle
type articleInPath struct {
	// Article id
	// in: path
	ArticleID string `json:"article_id"`
}

// swagger:parameters listPlants
type listPlantsParams struct {
	// Search query
	// in: query
	SearchQuery string `json:"q"`

	// in: query
	// enum: safe, danger
	Filter string `json:"filter"`

	// in: query
	// enum: name, name_desc, created_at, created_at_desc, evaluation_desc
	// default: name
	Sort string `json:"sort_by"`
}

// swagger:parameters listUsers listPlants listUserFavorites listNews listAllEvaluations
type paginationParams struct {
	// The page to return
	// Minimum: 1
	// default: 1
	// in: query
	Page int `json:"page"`

	// Size of the pages
	// Minimum: 1
	// Maximum: 100
	// default: 20
	// in: query
	PageSize int `json:"per_page"`
}

// CreateUser is used to represent user input in swagger documentation.
type createUserPayload struct {
	// Username
	//
	// Required: true
	Username *string `json:"username,omitempty"`

	// email
	// Required: true
	Email *string `json:"email,omitempty"`

	// Name
	Name *string `json:"name,omitempty"`
}

// swagger:parameters createUser
// See: https://goswagger.io/generate/spec/params.html
type createUserParam struct {
	// The user data
	//
	// required: true
	// in:body
	User createUserPayload `json:"user"`
}

// swagger:parameters createPlant
type createPlantParam struct {
	// Plant data
	//
	// required: true
	// in:body
	Plant plants.CreatePlant `json:"plant"`
}

// swagger:parameters createEvaluation
type createEvaluationParam struct {
	// Evaluation data
	//
	// required: true
	// in:body
	Evaluation evaluations.CreateEvaluation `json:"evaluation"`
}

// swagger:parameters reactionApply
type applyReactionParam struct {
	// Reaction data
	//
	// required: true
	// in:body
	Reaction evaluations.ApplyReaction `json:"reaction"`
}

/////////////////////////////////////////////////
///////  swagger Errors
/////////////////////////////////////////////////

// Server error serialized as JSON
// swagger:response plantError
type plantError struct {
	// In: body
	ErrMsg gz.ErrMsg
}
