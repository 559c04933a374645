package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"

	"github.com/gazebo-web/gz-go/v7"
	gztest "github.com/gazebo-web/gz-go/v7/testhelpers"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests for plant related routes.
//
// The default data seeds six plants with one editorial evaluation each:
// good: Cat Grass, Catnip, Spider Plant
// bad:  Lily, Pothos, Sago Palm

// plantListTest describes a test case for the plant list route.
type plantListTest struct {
	uriTest
	// expected names, in expected order
	expNames []string
}

func plantNames(list plants.PlantResponses) []string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	return names
}

// TestPlantList exercises sorting, searching, filtering and pagination of
// GET /plants.
func TestPlantList(t *testing.T) {
	setup()

	uri := "/1.0/plants"
	plantListTestsData := []plantListTest{
		{uriTest{"default name ascending", uri, nil, nil, false},
			[]string{"Cat Grass", "Catnip", "Lily", "Pothos", "Sago Palm", "Spider Plant"}},
		{uriTest{"name descending", uri + "?sort_by=name_desc", nil, nil, false},
			[]string{"Spider Plant", "Sago Palm", "Pothos", "Lily", "Catnip", "Cat Grass"}},
		{uriTest{"unknown sort falls back to name", uri + "?sort_by=bogus", nil, nil, false},
			[]string{"Cat Grass", "Catnip", "Lily", "Pothos", "Sago Palm", "Spider Plant"}},
		{uriTest{"search is case insensitive", uri + "?q=cat", nil, nil, false},
			[]string{"Cat Grass", "Catnip"}},
		{uriTest{"search with no hits", uri + "?q=zzzz", nil, nil, false},
			[]string{}},
		{uriTest{"safe filter", uri + "?filter=safe", nil, nil, false},
			[]string{"Cat Grass", "Catnip", "Spider Plant"}},
		{uriTest{"danger filter", uri + "?filter=danger", nil, nil, false},
			[]string{"Lily", "Pothos", "Sago Palm"}},
		{uriTest{"search and filter combined", uri + "?q=a&filter=danger", nil, nil, false},
			[]string{"Sago Palm"}},
		{uriTest{"second page", uri + "?per_page=4&page=2", nil, nil, false},
			[]string{"Sago Palm", "Spider Plant"}},
		{uriTest{"page beyond range is empty", uri + "?per_page=4&page=5", nil, nil, false},
			[]string{}},
		{uriTest{"filtered page beyond range is empty", uri + "?filter=safe&per_page=2&page=9", nil, nil, false},
			[]string{}},
	}

	for _, test := range plantListTestsData {
		t.Run(test.testDesc, func(t *testing.T) {
			jwt := getJWTToken(t, test.jwtGen)
			expEm, expCt := errMsgAndContentType(test.expErrMsg, ctJSON)
			bslice, _ := gztest.AssertRouteMultipleArgs("GET", test.URL, nil,
				expEm.StatusCode, jwt, expCt, t)
			if expEm.StatusCode == http.StatusOK {
				var list plants.PlantResponses
				require.NoError(t, json.Unmarshal(*bslice, &list),
					"Unable to unmarshal plant list %s", string(*bslice))
				assert.Equal(t, test.expNames, plantNames(list))
			} else if !test.ignoreErrorBody {
				gztest.AssertBackendErrorCode(t.Name(), bslice, expEm.ErrCode, t)
			}
		})
	}
}

// TestPlantListCounters checks the derived counters follow the evaluations.
func TestPlantListCounters(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	plantID := createPlantWithName(t, "Rubber Plant", myJWT, nil)
	createEvaluation(t, plantID, "bad", "chewed a leaf, vomited twice", myJWT)

	bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/plants?q=rubber",
		nil, http.StatusOK, nil, ctJSON, t)
	var list plants.PlantResponses
	require.NoError(t, json.Unmarshal(*bslice, &list))
	require.Len(t, list, 1)
	assert.Equal(t, 0, list[0].GoodCount)
	assert.Equal(t, 1, list[0].BadCount)

	// With its single bad report the plant shows up under danger.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/plants?q=rubber&filter=danger",
		nil, http.StatusOK, nil, ctJSON, t)
	list = plants.PlantResponses{}
	require.NoError(t, json.Unmarshal(*bslice, &list))
	require.Len(t, list, 1)
}

// TestPlantCreate tests POST /plants.
func TestPlantCreate(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	plantID := createPlantWithName(t, "Boston Fern", myJWT,
		map[string]string{"scientific_name": "Nephrolepis exaltata"})

	// Registering the same name again reports the existing plant id.
	em := gz.NewErrorMessage(gz.ErrorResourceExists)
	code, bslice, _ := gztest.SendMultipartPOST(t.Name(), t, "/1.0/plants",
		&myJWT, map[string]string{"name": "Boston Fern"}, nil)
	assert.Equal(t, em.StatusCode, code)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// Missing name.
	emInv := gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	code, bslice, _ = gztest.SendMultipartPOST(t.Name(), t, "/1.0/plants",
		&myJWT, map[string]string{"description": "no name given"}, nil)
	assert.Equal(t, emInv.StatusCode, code)
	gztest.AssertBackendErrorCode(t.Name(), bslice, emInv.ErrCode, t)

	// Anonymous users cannot register plants.
	code, _, _ = gztest.SendMultipartPOST(t.Name(), t, "/1.0/plants", nil,
		map[string]string{"name": "Anonymous Plant"}, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	// The creator is recorded.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET",
		fmt.Sprintf("/1.0/plants/%d", plantID), nil, http.StatusOK, nil, ctJSON, t)
	var detail plants.PlantDetailResponse
	require.NoError(t, json.Unmarshal(*bslice, &detail))
	require.NotNil(t, detail.Plant.Creator)
	assert.Equal(t, username, *detail.Plant.Creator)
	require.NotNil(t, detail.Plant.ScientificName)
	assert.Equal(t, "Nephrolepis exaltata", *detail.Plant.ScientificName)
}

// TestPlantUpdate checks only the creator (or a moderator) can edit, and that
// the name is immutable through the route.
func TestPlantUpdate(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	plantID := createPlantWithName(t, "Parlor Palm", myJWT, nil)
	uri := fmt.Sprintf("/1.0/plants/%d", plantID)

	// The creator can update taxonomy.
	up := plants.UpdatePlant{Family: sptr("Arecaceae")}
	bslice := sendJSON(t, "PATCH", uri, up, &myJWT, http.StatusOK, ctJSON)
	var plant plants.Plant
	require.NoError(t, json.Unmarshal(*bslice, &plant))
	require.NotNil(t, plant.Family)
	assert.Equal(t, "Arecaceae", *plant.Family)

	// Another member cannot.
	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice = sendJSON(t, "PATCH", uri, up, &jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// An empty update is rejected.
	emInv := gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	bslice = sendJSON(t, "PATCH", uri, plants.UpdatePlant{}, &myJWT, emInv.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, emInv.ErrCode, t)
}

// TestPlantRemove checks only the creator (or a moderator) can remove.
func TestPlantRemove(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	plantID := createPlantWithName(t, "Peace Lily", myJWT, nil)
	uri := fmt.Sprintf("/1.0/plants/%d", plantID)

	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice := sendJSON(t, "DELETE", uri, nil, &jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	sendJSON(t, "DELETE", uri, nil, &myJWT, http.StatusOK, ctJSON)

	emGone := gz.NewErrorMessage(gz.ErrorIDNotFound)
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", uri, nil, emGone.StatusCode, nil, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, emGone.ErrCode, t)
}

// TestPlantFavoritesAndHave exercises the favorite / have marks and the
// favorites listing.
func TestPlantFavoritesAndHave(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	plantID := createPlantWithName(t, "String Of Pearls", myJWT, nil)
	favURI := fmt.Sprintf("/1.0/plants/%d/favorites", plantID)
	haveURI := fmt.Sprintf("/1.0/plants/%d/have", plantID)
	detailURI := fmt.Sprintf("/1.0/plants/%d", plantID)

	sendJSON(t, "POST", favURI, nil, &myJWT, http.StatusOK, ctJSON)
	// Favoriting twice is a no-op.
	sendJSON(t, "POST", favURI, nil, &myJWT, http.StatusOK, ctJSON)
	sendJSON(t, "POST", haveURI, nil, &myJWT, http.StatusOK, ctJSON)

	bslice, _ := gztest.AssertRouteMultipleArgs("GET", detailURI, nil, http.StatusOK, &myJWT, ctJSON, t)
	var detail plants.PlantDetailResponse
	require.NoError(t, json.Unmarshal(*bslice, &detail))
	assert.True(t, detail.Favorited)
	assert.True(t, detail.Have)

	// The user's favorites list contains the plant.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET",
		"/1.0/"+username+"/favorites/plants", nil, http.StatusOK, nil, ctJSON, t)
	var favs plants.PlantResponses
	require.NoError(t, json.Unmarshal(*bslice, &favs))
	require.Len(t, favs, 1)
	assert.Equal(t, "String Of Pearls", favs[0].Name)

	// Undo both marks.
	sendJSON(t, "DELETE", favURI, nil, &myJWT, http.StatusOK, ctJSON)
	sendJSON(t, "DELETE", haveURI, nil, &myJWT, http.StatusOK, ctJSON)

	bslice, _ = gztest.AssertRouteMultipleArgs("GET", detailURI, nil, http.StatusOK, &myJWT, ctJSON, t)
	detail = plants.PlantDetailResponse{}
	require.NoError(t, json.Unmarshal(*bslice, &detail))
	assert.False(t, detail.Favorited)
	assert.False(t, detail.Have)

	// Anonymous requests never report the flags.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", detailURI, nil, http.StatusOK, nil, ctJSON, t)
	detail = plants.PlantDetailResponse{}
	require.NoError(t, json.Unmarshal(*bslice, &detail))
	assert.False(t, detail.Favorited)
	assert.False(t, detail.Have)
}

// TestPlantFavoriteCreateDbMock tests DB failure paths when favoriting.
func TestPlantFavoriteCreateDbMock(t *testing.T) {
	// General test setup
	setup()

	origDb := globals.Server.Db
	// Make sure to return back to real DB after running this test
	defer SetGlobalDB(origDb)

	// Setup DB mock
	mockDb := SetupDbMockCatcher()
	SetGlobalDB(mockDb)
	SetupCommonMockResponses("test-user")

	uri := "/1.0/plants/100/favorites"
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	// Test bad connection at Begin() tx
	SetGlobalDB(NewFailAtBeginConn())
	expErr := gz.ErrorMessage(gz.ErrorNoDatabase)
	bslice, _ := gztest.AssertRouteMultipleArgs("POST", uri, nil, expErr.StatusCode, &myJWT, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, expErr.ErrCode, t)

	// Test failure at TX commit
	SetGlobalDB(mockDb)
	SetupMockBadCommit()
	defer ClearMockBadCommit()
	expErr = gz.ErrorMessage(gz.ErrorDbSave)
	bslice, _ = gztest.AssertRouteMultipleArgs("POST", uri, nil, expErr.StatusCode, &myJWT, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, expErr.ErrCode, t)
}

// TestAPIPlants checks the OPTIONS route that describes the plants API.
func TestAPIPlants(t *testing.T) {
	// General test setup
	setup()

	code := http.StatusOK
	if globals.Server.Db == nil {
		code = gz.ErrorMessage(gz.ErrorNoDatabase).StatusCode
	}

	gztest.AssertRoute("OPTIONS", "/1.0/plants", code, t)
}
