package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/gazebo-web/gz-go/v7"
	gztest "github.com/gazebo-web/gz-go/v7/testhelpers"
	"github.com/nekosafe-web/plant-server/bundles/evaluations"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests for evaluation and reaction related routes

func getEvaluations(t *testing.T, plantID uint) evaluations.EvaluationResponses {
	uri := fmt.Sprintf("/1.0/plants/%d/evaluations", plantID)
	bslice, _ := gztest.AssertRouteMultipleArgs("GET", uri, nil, http.StatusOK, nil, ctJSON, t)
	var list evaluations.EvaluationResponses
	require.NoError(t, json.Unmarshal(*bslice, &list),
		"Unable to unmarshal evaluation list %s", string(*bslice))
	return list
}

// TestEvaluationCreate tests POST /plants/{plant}/evaluations.
func TestEvaluationCreate(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	plantID := createPlantWithName(t, "Areca Palm", myJWT, nil)
	createEvaluation(t, plantID, "good", "my cat ignores it completely", myJWT)

	list := getEvaluations(t, plantID)
	require.Len(t, list, 1)
	assert.Equal(t, "good", list[0].Polarity)
	assert.Equal(t, username, list[0].Username)
	assert.Equal(t, "my cat ignores it completely", list[0].Comment)

	// An invalid polarity is rejected.
	em := gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	uri := fmt.Sprintf("/1.0/plants/%d/evaluations", plantID)
	code, bslice, _ := gztest.SendMultipartPOST(t.Name(), t, uri, &myJWT,
		map[string]string{"polarity": "maybe"}, nil)
	assert.Equal(t, em.StatusCode, code)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// Evaluating a missing plant fails.
	emID := gz.NewErrorMessage(gz.ErrorIDNotFound)
	code, _, _ = gztest.SendMultipartPOST(t.Name(), t, "/1.0/plants/999999/evaluations",
		&myJWT, map[string]string{"polarity": "good"}, nil)
	assert.Equal(t, emID.StatusCode, code)

	// Anonymous users cannot evaluate.
	code, _, _ = gztest.SendMultipartPOST(t.Name(), t, uri, nil,
		map[string]string{"polarity": "good"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

// TestEvaluationRemove checks only the author or a moderator can remove.
func TestEvaluationRemove(t *testing.T) {
	setup()
	createSysAdminUser(t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	plantID := createPlantWithName(t, "Jade Plant", myJWT, nil)
	evalID := createEvaluation(t, plantID, "bad", "", jwt2)
	evalID2 := createEvaluation(t, plantID, "bad", "", jwt2)

	// The author can remove their own report.
	sendJSON(t, "DELETE", fmt.Sprintf("/1.0/evaluations/%d", evalID), nil,
		&jwt2, http.StatusOK, ctJSON)
	require.Len(t, getEvaluations(t, plantID), 1)

	// A moderator can remove anybody's report.
	sendJSON(t, "DELETE", fmt.Sprintf("/1.0/evaluations/%d", evalID2), nil,
		&myJWT, http.StatusOK, ctJSON)
	require.Len(t, getEvaluations(t, plantID), 0)

	// A non-author member cannot.
	evalID3 := createEvaluation(t, plantID, "good", "", myJWT)
	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice := sendJSON(t, "DELETE", fmt.Sprintf("/1.0/evaluations/%d", evalID3),
		nil, &jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestEvaluationReactions exercises the reaction upsert and undo semantics.
func TestEvaluationReactions(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	plantID := createPlantWithName(t, "Calathea", myJWT, nil)
	evalID := createEvaluation(t, plantID, "good", "no issues after a year", myJWT)
	uri := fmt.Sprintf("/1.0/evaluations/%d/reactions", evalID)

	react := func(jwt, polarity string) {
		sendJSON(t, "POST", uri, evaluations.ApplyReaction{Polarity: polarity},
			&jwt, http.StatusOK, ctJSON)
	}

	react(jwt2, "good")
	list := getEvaluations(t, plantID)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].GoodReactions)
	assert.Equal(t, 0, list[0].BadReactions)

	// Same polarity again is a no-op, not a toggle.
	react(jwt2, "good")
	list = getEvaluations(t, plantID)
	assert.Equal(t, 1, list[0].GoodReactions)

	// The other polarity updates the existing reaction in place.
	react(jwt2, "bad")
	list = getEvaluations(t, plantID)
	assert.Equal(t, 0, list[0].GoodReactions)
	assert.Equal(t, 1, list[0].BadReactions)

	// A second user's reaction tallies independently.
	react(myJWT, "bad")
	list = getEvaluations(t, plantID)
	assert.Equal(t, 2, list[0].BadReactions)

	// Undo.
	sendJSON(t, "DELETE", uri, nil, &jwt2, http.StatusOK, ctJSON)
	list = getEvaluations(t, plantID)
	assert.Equal(t, 1, list[0].BadReactions)
	// Undoing an absent reaction is a no-op.
	sendJSON(t, "DELETE", uri, nil, &jwt2, http.StatusOK, ctJSON)

	// An invalid polarity is rejected.
	em := gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	bslice := sendJSON(t, "POST", uri, evaluations.ApplyReaction{Polarity: "meh"},
		&jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestAdminEvaluationsList checks the moderation listing across plants.
func TestAdminEvaluationsList(t *testing.T) {
	setup()
	createSysAdminUser(t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	plantID := createPlantWithName(t, "Begonia", myJWT, nil)
	plantID2 := createPlantWithName(t, "Coleus", myJWT, nil)
	createEvaluation(t, plantID, "bad", "", jwt2)
	createEvaluation(t, plantID2, "good", "", jwt2)

	// Moderators see every evaluation, including the seeded ones.
	bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/admin/evaluations",
		nil, http.StatusOK, &myJWT, ctJSON, t)
	var list evaluations.EvaluationResponses
	require.NoError(t, json.Unmarshal(*bslice, &list))
	assert.Len(t, list, 8)

	// Members are rejected.
	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/admin/evaluations",
		nil, em.StatusCode, &jwt2, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}
