package vision

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidates(t *testing.T) {
	tests := []struct {
		desc    string
		content string
		exp     []Candidate
		expErr  bool
	}{
		{
			"plain array",
			`[{"name": "Monstera", "confidence": 0.9}, {"name": "Pothos", "confidence": 0.4}]`,
			[]Candidate{{"Monstera", 0.9}, {"Pothos", 0.4}},
			false,
		},
		{
			"array wrapped in markdown fences",
			"```json\n[{\"name\": \"Monstera\", \"confidence\": 0.9}]\n```",
			[]Candidate{{"Monstera", 0.9}},
			false,
		},
		{
			"array wrapped in prose",
			`Sure! Here are my guesses: [{"name": "Aloe Vera", "confidence": 0.7}] Hope that helps.`,
			[]Candidate{{"Aloe Vera", 0.7}},
			false,
		},
		{
			"single object reply",
			`{"name": "Catnip", "confidence": 0.95}`,
			[]Candidate{{"Catnip", 0.95}},
			false,
		},
		{
			"re-ranked by confidence",
			`[{"name": "Pothos", "confidence": 0.4}, {"name": "Monstera", "confidence": 0.9}]`,
			[]Candidate{{"Monstera", 0.9}, {"Pothos", 0.4}},
			false,
		},
		{
			"confidence clamped into [0,1]",
			`[{"name": "Monstera", "confidence": 1.7}, {"name": "Pothos", "confidence": -0.2}]`,
			[]Candidate{{"Monstera", 1}, {"Pothos", 0}},
			false,
		},
		{
			"object fallback when the array is malformed",
			`The answer ["not json" is here: {"name": "Fern [indoor]", "confidence": 0.5}`,
			[]Candidate{{"Fern [indoor]", 0.5}},
			false,
		},
		{
			"no json at all",
			`I cannot identify this plant.`,
			nil,
			true,
		},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			cands, err := ParseCandidates(test.content)
			if test.expErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, cands)
		})
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	os.Unsetenv("VISION_API_KEY")
	assert.Nil(t, NewClient())
}

func TestIdentify(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])

		resp := map[string]interface{}{
			"id": "chatcmpl-1",
			"choices": []map[string]interface{}{
				{"message": map[string]interface{}{
					"role":    "assistant",
					"content": `[{"name": "Spider Plant", "confidence": 0.8}]`,
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	os.Setenv("VISION_API_KEY", "test-key")
	os.Setenv("VISION_BASE_URL", srv.URL)
	os.Setenv("VISION_MODEL", "test-model")
	defer func() {
		os.Unsetenv("VISION_API_KEY")
		os.Unsetenv("VISION_BASE_URL")
		os.Unsetenv("VISION_MODEL")
	}()

	client := NewClient()
	require.NotNil(t, client)

	cands, err := client.Identify(context.Background(), []byte("not-really-a-jpg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, []Candidate{{"Spider Plant", 0.8}}, cands)
	assert.Equal(t, "Bearer test-key", gotAuth)
}

func TestIdentifyErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	os.Setenv("VISION_API_KEY", "test-key")
	os.Setenv("VISION_BASE_URL", srv.URL)
	defer func() {
		os.Unsetenv("VISION_API_KEY")
		os.Unsetenv("VISION_BASE_URL")
	}()

	client := NewClient()
	require.NotNil(t, client)

	_, err := client.Identify(context.Background(), []byte("img"), "image/png")
	assert.Error(t, err)
}
