package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, func()) {
	srv := httptest.NewServer(handler)
	os.Setenv("NEWS_CMS_URL", srv.URL)
	os.Setenv("NEWS_CMS_API_KEY", "cms-key")
	client := NewClient()
	require.NotNil(t, client)
	return client, func() {
		srv.Close()
		os.Unsetenv("NEWS_CMS_URL")
		os.Unsetenv("NEWS_CMS_API_KEY")
	}
}

func TestNewClientRequiresURL(t *testing.T) {
	os.Unsetenv("NEWS_CMS_URL")
	assert.Nil(t, NewClient())
}

func TestList(t *testing.T) {
	published := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	client, teardown := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents", r.URL.Path)
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("per_page"))
		assert.Equal(t, "-published_at", r.URL.Query().Get("order"))
		assert.Equal(t, "Bearer cms-key", r.Header.Get("Authorization"))

		json.NewEncoder(w).Encode(Articles{
			Items: []Article{
				{ID: "a1", Title: "Spring plants to avoid", Tags: []string{"safety"}, PublishedAt: published},
			},
			Total: 11,
		})
	}))
	defer teardown()

	arts, err := client.List(context.Background(), 2, 10)
	require.NoError(t, err)
	assert.Equal(t, 11, arts.Total)
	require.Len(t, arts.Items, 1)
	assert.Equal(t, "a1", arts.Items[0].ID)
	assert.Equal(t, "Spring plants to avoid", arts.Items[0].Title)
	assert.True(t, published.Equal(arts.Items[0].PublishedAt))
}

func TestGet(t *testing.T) {
	client, teardown := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/documents/a1", r.URL.Path)
		json.NewEncoder(w).Encode(Article{
			ID:    "a1",
			Title: "Spring plants to avoid",
			Body: []Block{
				{Type: "paragraph", Text: "Lilies top the list."},
				{Type: "image", URL: "https://cms.example.com/lily.jpg"},
			},
		})
	}))
	defer teardown()

	art, err := client.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "a1", art.ID)
	require.Len(t, art.Body, 2)
	assert.Equal(t, "paragraph", art.Body[0].Type)
	assert.Equal(t, "https://cms.example.com/lily.jpg", art.Body[1].URL)
}

func TestGetNotFound(t *testing.T) {
	client, teardown := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer teardown()

	_, err := client.Get(context.Background(), "missing")
	assert.Equal(t, ErrArticleNotFound, err)
}

func TestGetServerError(t *testing.T) {
	client, teardown := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer teardown()

	_, err := client.Get(context.Background(), "a1")
	assert.Error(t, err)
	assert.NotEqual(t, ErrArticleNotFound, err)
}
