package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gazebo-web/gz-go/v7"
	gztest "github.com/gazebo-web/gz-go/v7/testhelpers"
	"github.com/nekosafe-web/plant-server/globals"
	"github.com/nekosafe-web/plant-server/vision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests for the plant identification route

// TestVisionIdentifyDisabled checks the route reports not-found when no
// vision provider is configured.
func TestVisionIdentifyDisabled(t *testing.T) {
	setup()
	require.Nil(t, globals.Vision)
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	em := gz.NewErrorMessage(gz.ErrorNonExistentResource)
	code, bslice, _ := gztest.SendMultipartPOST(t.Name(), t, "/1.0/vision/identify",
		&myJWT, nil, []gztest.FileDesc{{Path: "photo.png", Contents: "not-a-real-png"}})
	assert.Equal(t, em.StatusCode, code)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestVisionIdentify runs the route against a fake provider.
func TestVisionIdentify(t *testing.T) {
	setup()
	username := createUser(t)
	defer removeUser(username, t)
	myJWT := os.Getenv("NEKOSAFE_TEST_JWT")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		reply := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{
					"role":    "assistant",
					"content": `[{"name": "Monstera", "confidence": 0.9}, {"name": "Philodendron", "confidence": 0.4}]`,
				}},
			},
		}
		json.NewEncoder(w).Encode(reply)
	}))
	defer srv.Close()

	os.Setenv("VISION_API_KEY", "test-key")
	os.Setenv("VISION_BASE_URL", srv.URL)
	defer os.Unsetenv("VISION_API_KEY")
	defer os.Unsetenv("VISION_BASE_URL")

	old := globals.Vision
	globals.Vision = vision.NewClient()
	require.NotNil(t, globals.Vision)
	defer func() { globals.Vision = old }()

	code, bslice, ok := gztest.SendMultipartPOST(t.Name(), t, "/1.0/vision/identify",
		&myJWT, nil, []gztest.FileDesc{{Path: "photo.png", Contents: "not-a-real-png"}})
	require.True(t, ok)
	require.Equal(t, http.StatusOK, code, "Identify failed %s", string(*bslice))

	var cands []vision.Candidate
	require.NoError(t, json.Unmarshal(*bslice, &cands))
	require.Len(t, cands, 2)
	assert.Equal(t, "Monstera", cands[0].Name)

	// A request with no image is rejected.
	em := gz.NewErrorMessage(gz.ErrorFormMissingFiles)
	code, bslice, _ = gztest.SendMultipartPOST(t.Name(), t, "/1.0/vision/identify",
		&myJWT, nil, nil)
	assert.Equal(t, em.StatusCode, code)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}
