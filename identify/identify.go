// Plant identification through the Plant.id API.
package identify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Reward is granted to the active player for every successful
// identification.
const Reward = 10

type Client struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 25 * time.Second},
	}
}

type request struct {
	Images       []string `json:"images"`
	SimilarImgs  bool     `json:"similar_images"`
	Modifiers    []string `json:"modifiers"`
	PlantDetails []string `json:"plant_details"`
}

type response struct {
	Result struct {
		Classification struct {
			Suggestions []suggestion `json:"suggestions"`
		} `json:"classification"`
	} `json:"result"`
}

type suggestion struct {
	Name        string  `json:"name"`
	Probability float64 `json:"probability"`
	Details     struct {
		CommonNames []string `json:"common_names"`
		URL         string   `json:"url"`
		Taxonomy    struct {
			Family string `json:"family"`
		} `json:"taxonomy"`
	} `json:"details"`
}

// Result is the flattened identification answer shown to the player.
type Result struct {
	Name           string   `json:"name"`
	ScientificName string   `json:"scientific_name"`
	Family         string   `json:"family"`
	Probability    float64  `json:"probability"`
	CommonNames    []string `json:"common_names"`
	WikipediaURL   string   `json:"wikipedia_url"`
	Sources        []string `json:"sources"`
}

// Identify sends the raw image bytes to the classifier and flattens the top
// suggestion. A non-2xx status or an empty suggestion list is an error; no
// partial result is ever returned.
func (c *Client) Identify(ctx context.Context, imageData []byte) (Result, error) {
	if c.APIKey == "" {
		return Result{}, fmt.Errorf("identify: no api key configured")
	}

	payload := request{
		Images:       []string{base64.StdEncoding.EncodeToString(imageData)},
		SimilarImgs:  true,
		Modifiers:    []string{"crops_fast", "similar_images"},
		PlantDetails: []string{"common_names", "url", "wiki_description", "taxonomy"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Api-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("identify: classifier returned %s", resp.Status)
	}

	var parsed response
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Result{}, fmt.Errorf("identify: decode response: %w", err)
	}

	suggestions := parsed.Result.Classification.Suggestions
	if len(suggestions) == 0 {
		return Result{}, fmt.Errorf("identify: no suggestions returned")
	}
	return flatten(suggestions[0]), nil
}

func flatten(s suggestion) Result {
	r := Result{
		ScientificName: s.Name,
		Family:         s.Details.Taxonomy.Family,
		Probability:    s.Probability,
		CommonNames:    s.Details.CommonNames,
		WikipediaURL:   s.Details.URL,
		Sources:        []string{"Plant.id"},
	}
	if len(r.CommonNames) > 0 {
		r.Name = r.CommonNames[0]
	} else {
		r.Name = s.Name
	}
	return r
}
