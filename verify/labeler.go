package verify

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lunavega/ecogame/structs"
)

// Labeler calls the external image-labeling service. It returns whatever
// the service says, best label first; deciding pass/fail is Evaluate's job.
type Labeler struct {
	Endpoint string
	APIKey   string
	HTTP     *http.Client
}

func NewLabeler(endpoint, apiKey string) *Labeler {
	return &Labeler{
		Endpoint: endpoint,
		APIKey:   apiKey,
		HTTP:     &http.Client{Timeout: 25 * time.Second},
	}
}

type labelRequest struct {
	Image string `json:"image"` // base64
}

type labelResponse struct {
	Labels []structs.LabelScore `json:"labels"`
}

// Label submits the image and returns the ordered label list. A malformed
// body decodes to an empty list, which Evaluate treats as indeterminate.
func (l *Labeler) Label(ctx context.Context, imageData []byte) ([]structs.LabelScore, error) {
	body, err := json.Marshal(labelRequest{Image: base64.StdEncoding.EncodeToString(imageData)})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if l.APIKey != "" {
		req.Header.Set("Api-Key", l.APIKey)
	}

	resp, err := l.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("verify: labeler returned %s", resp.Status)
	}

	var parsed labelResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, nil
	}
	return parsed.Labels, nil
}
