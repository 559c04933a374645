// Package vision identifies plants on user photos by calling an
// OpenAI-compatible chat-completions endpoint with the image attached. The
// provider (base URL, model, API key) is selected via environment variables,
// so any compatible vendor can be plugged in.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/gazebo-web/gz-go/v7"
	"github.com/pkg/errors"
)

const systemPrompt = `You are a botanist identifying houseplants from photos.
Reply with a JSON array of up to 5 candidates, ordered by likelihood, in the
form [{"name": "<common plant name>", "confidence": <0..1>}]. Reply with the
JSON array only.`

// Candidate is one plant-name guess for an uploaded image.
type Candidate struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

type message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client talks to a chat-completions endpoint.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// NewClient builds a Client from environment variables. The returned client
// is nil when no API key is configured, in which case the identify route is
// disabled.
func NewClient() *Client {
	apiKey, err := gz.ReadEnvVar("VISION_API_KEY")
	if err != nil || apiKey == "" {
		return nil
	}
	baseURL, err := gz.ReadEnvVar("VISION_BASE_URL")
	if err != nil || baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model, err := gz.ReadEnvVar("VISION_MODEL")
	if err != nil || model == "" {
		model = "gpt-4o-mini"
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Identify sends the image to the vision endpoint and returns ranked plant
// name candidates. image is the raw file content; mimeType something like
// "image/jpeg".
func (c *Client) Identify(ctx context.Context, image []byte, mimeType string) ([]Candidate, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType,
		base64.StdEncoding.EncodeToString(image))

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: "Identify the plant in this photo."},
				{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
			}},
		},
		MaxTokens:   500,
		Temperature: 0,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "vision request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("vision API error (status %d)", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, errors.Wrap(err, "failed to parse response")
	}
	if len(chatResp.Choices) == 0 {
		return nil, errors.New("no response choices returned")
	}

	return ParseCandidates(chatResp.Choices[0].Message.Content)
}

// ParseCandidates extracts the candidates array from the model reply. Models
// occasionally wrap the JSON in prose or markdown fences, so when a direct
// unmarshal fails we scan for the outermost bracket pair and retry.
func ParseCandidates(content string) ([]Candidate, error) {
	var cands []Candidate
	if err := json.Unmarshal([]byte(content), &cands); err == nil {
		return rank(cands), nil
	}

	if sub, ok := extractArray(content); ok {
		if err := json.Unmarshal([]byte(sub), &cands); err == nil {
			return rank(cands), nil
		}
	}

	// Some models answer with a single object instead of an array.
	if sub, ok := extractObject(content); ok {
		var cand Candidate
		if err := json.Unmarshal([]byte(sub), &cand); err == nil && cand.Name != "" {
			return []Candidate{cand}, nil
		}
	}

	return nil, errors.New("could not find candidates JSON in model reply")
}

// extractArray returns the substring from the first '[' to its matching ']'.
func extractArray(s string) (string, bool) {
	return extractBalanced(s, '[', ']')
}

// extractObject returns the substring from the first '{' to its matching '}'.
func extractObject(s string) (string, bool) {
	return extractBalanced(s, '{', '}')
}

func extractBalanced(s string, open, close byte) (string, bool) {
	start := -1
	depth := 0
	inString := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			if start >= 0 {
				inString = true
			}
		case open:
			if start < 0 {
				start = i
			}
			depth++
		case close:
			if start >= 0 {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// rank sorts candidates by descending confidence and clamps values into
// [0, 1].
func rank(cands []Candidate) []Candidate {
	for i := range cands {
		if cands[i].Confidence < 0 {
			cands[i].Confidence = 0
		}
		if cands[i].Confidence > 1 {
			cands[i].Confidence = 1
		}
	}
	sort.SliceStable(cands, func(i, j int) bool {
		return cands[i].Confidence > cands[j].Confidence
	})
	return cands
}
