package main

import (
	"encoding/json"
	"net/http"
	"os"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/gazebo-web/gz-go/v7"
	gztest "github.com/gazebo-web/gz-go/v7/testhelpers"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/stretchr/testify/assert"
)

// Tests for user related routes

// loginUserTest represents the input and expected output for a TestUserLogin test case.
type loginUserTest struct {
	uriTest
	// expected username in user response
	expUsername string
}

// TestUserLogin tests the /login route.
func TestUserLogin(t *testing.T) {
	setup()
	// Create a random user
	username := createUser(t)
	defer removeUser(username, t)

	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	uri := "/1.0/login"
	loginUserTestsData := []loginUserTest{
		{uriTest{"valid login", uri, newJWT(myJWT), nil, false}, username},
		{uriTest{"invalid token", uri, newJWT("pahjtrkjfd"),
			gz.NewErrorMessage(gz.ErrorUnauthorized), true}, ""},
		{uriTest{"invalid claims - no sub", uri,
			newClaimsJWT(&jwt.MapClaims{"invalid": "user"}),
			gz.NewErrorMessage(gz.ErrorAuthJWTInvalid), false}, ""},
		{uriTest{"empty claims", uri, newClaimsJWT(&jwt.MapClaims{}),
			gz.NewErrorMessage(gz.ErrorAuthJWTInvalid), false}, ""},
		{uriTest{"unexistent identity", uri,
			newClaimsJWT(&jwt.MapClaims{"sub": "non-existing-user"}),
			gz.NewErrorMessage(gz.ErrorAuthNoUser), false}, ""},
	}

	for _, test := range loginUserTestsData {
		t.Run(test.testDesc, func(t *testing.T) {
			jwt := getJWTToken(t, test.jwtGen)
			expEm, expCt := errMsgAndContentType(test.expErrMsg, ctJSON)
			expStatus := expEm.StatusCode
			bslice, _ := gztest.AssertRouteMultipleArgs("GET", test.URL, nil, expStatus, jwt, expCt, t)
			if expStatus == http.StatusOK {
				var ur users.UserResponse
				assert.NoError(t, json.Unmarshal(*bslice, &ur), "Unable to unmarshal user response %s", string(*bslice))
				assert.Equal(t, test.expUsername, ur.Username)
			} else if !test.ignoreErrorBody {
				gztest.AssertBackendErrorCode(t.Name()+" GET /login", bslice, expEm.ErrCode, t)
			}
		})
	}
}

// TestUserCreate tests the POST /users route.
func TestUserCreate(t *testing.T) {
	setup()

	username := createUser(t)
	defer removeUser(username, t)

	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	// The same identity cannot register twice.
	name := "Another Name"
	other := "otherusername"
	u := users.User{Name: &name, Username: &other}
	em := gz.NewErrorMessage(gz.ErrorResourceExists)
	bslice := sendJSON(t, "POST", "/1.0/users", u, &myJWT, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// A different identity cannot reuse the username.
	jwt2 := createValidJWTForIdentity("another-user", t)
	u2 := users.User{Name: &name, Username: &username}
	bslice = sendJSON(t, "POST", "/1.0/users", u2, &jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// Blacklisted usernames are rejected.
	blocked := "admin"
	u3 := users.User{Name: &name, Username: &blocked}
	emInv := gz.NewErrorMessage(gz.ErrorFormInvalidValue)
	bslice = sendJSON(t, "POST", "/1.0/users", u3, &jwt2, emInv.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, emInv.ErrCode, t)
}

// TestUserIndex checks private fields are only returned to the user
// themselves (or a system admin).
func TestUserIndex(t *testing.T) {
	setup()

	username := createUser(t)
	defer removeUser(username, t)
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")
	uri := "/1.0/users/" + username

	// Requesting the own profile returns the email.
	bslice, _ := gztest.AssertRouteMultipleArgs("GET", uri, nil, http.StatusOK, &myJWT, ctJSON, t)
	var ur users.UserResponse
	assert.NoError(t, json.Unmarshal(*bslice, &ur))
	assert.Equal(t, username, ur.Username)
	assert.NotEmpty(t, ur.Email)

	// Another user only sees public data.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", uri, nil, http.StatusOK, &jwt2, ctJSON, t)
	ur = users.UserResponse{}
	assert.NoError(t, json.Unmarshal(*bslice, &ur))
	assert.Equal(t, username, ur.Username)
	assert.Empty(t, ur.Email)

	// Anonymous requests work too.
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", uri, nil, http.StatusOK, nil, ctJSON, t)
	ur = users.UserResponse{}
	assert.NoError(t, json.Unmarshal(*bslice, &ur))
	assert.Equal(t, username, ur.Username)
	assert.Empty(t, ur.Email)

	// Unknown username.
	em := gz.NewErrorMessage(gz.ErrorUserUnknown)
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/users/nosuchuser", nil, em.StatusCode, &myJWT, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestUserList checks only system admins can list users.
func TestUserList(t *testing.T) {
	setup()

	createSysAdminUser(t)
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)
	defer removeUserWithJWT(username2, jwt2, t)

	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	// The sysadmin gets the list.
	bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/users", nil, http.StatusOK, &myJWT, ctJSON, t)
	var list []users.UserResponse
	assert.NoError(t, json.Unmarshal(*bslice, &list))
	assert.Len(t, list, 2)

	// A regular member is rejected.
	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/users", nil, em.StatusCode, &jwt2, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestUserRemoveOnlySelfOrAdmin checks a user cannot remove somebody else.
func TestUserRemoveOnlySelfOrAdmin(t *testing.T) {
	setup()

	username := createUser(t)
	defer removeUser(username, t)
	jwt2 := createValidJWTForIdentity("another-user", t)
	username2 := createUserWithJWT(jwt2, t)

	em := gz.NewErrorMessage(gz.ErrorUnauthorized)
	bslice := sendJSON(t, "DELETE", "/1.0/users/"+username, nil, &jwt2, em.StatusCode, ctTextPlain)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	// Removing oneself works.
	removeUserWithJWT(username2, jwt2, t)
}
