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
	"github.com/nekosafe-web/plant-server/news"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Tests for the news proxy routes

// withFakeCMS points globals.News at a fake CMS server for the duration of a
// test.
func withFakeCMS(t *testing.T, handler http.Handler, fn func()) {
	srv := httptest.NewServer(handler)
	defer srv.Close()

	os.Setenv("NEWS_CMS_URL", srv.URL)
	defer os.Unsetenv("NEWS_CMS_URL")

	old := globals.News
	globals.News = news.NewClient()
	require.NotNil(t, globals.News)
	defer func() { globals.News = old }()

	fn()
}

// TestNewsDisabled checks the routes report not-found when no CMS is
// configured.
func TestNewsDisabled(t *testing.T) {
	setup()
	require.Nil(t, globals.News)

	em := gz.NewErrorMessage(gz.ErrorNonExistentResource)
	bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/news", nil,
		em.StatusCode, nil, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)

	bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/news/a1", nil,
		em.StatusCode, nil, ctTextPlain, t)
	gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
}

// TestNewsList proxies the CMS list.
func TestNewsList(t *testing.T) {
	setup()

	withFakeCMS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		json.NewEncoder(w).Encode(news.Articles{
			Items: []news.Article{{ID: "a2", Title: "New dangerous plants added"},
				{ID: "a1", Title: "Welcome"}},
			Total: 2,
		})
	}), func() {
		bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/news", nil,
			http.StatusOK, nil, ctJSON, t)
		var arts news.Articles
		require.NoError(t, json.Unmarshal(*bslice, &arts))
		assert.Equal(t, 2, arts.Total)
		require.Len(t, arts.Items, 2)
		assert.Equal(t, "a2", arts.Items[0].ID)
	})
}

// TestNewsIndex proxies a single article and maps CMS 404s.
func TestNewsIndex(t *testing.T) {
	setup()

	withFakeCMS(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/documents/a1" {
			json.NewEncoder(w).Encode(news.Article{
				ID:    "a1",
				Title: "Welcome",
				Body:  []news.Block{{Type: "paragraph", Text: "Hello!"}},
			})
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}), func() {
		bslice, _ := gztest.AssertRouteMultipleArgs("GET", "/1.0/news/a1", nil,
			http.StatusOK, nil, ctJSON, t)
		var art news.Article
		require.NoError(t, json.Unmarshal(*bslice, &art))
		assert.Equal(t, "Welcome", art.Title)
		require.Len(t, art.Body, 1)

		em := gz.NewErrorMessage(gz.ErrorNameNotFound)
		bslice, _ = gztest.AssertRouteMultipleArgs("GET", "/1.0/news/missing",
			nil, em.StatusCode, nil, ctTextPlain, t)
		gztest.AssertBackendErrorCode(t.Name(), bslice, em.ErrCode, t)
	})
}
