package vocab

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultLanguageEndpoint is the production Metax language reference
// data endpoint.
const DefaultLanguageEndpoint = "https://metax.fairdata.fi/es/reference_data/language/_search?size=10000"

// LanguageVocabulary answers whether a language URI is accepted by
// Metax. The allowed-URI set is fetched from the vocabulary endpoint
// once and reused for the life of the process; Invalidate discards the
// cached set so the next check fetches again.
type LanguageVocabulary struct {
	endpoint string
	client   *http.Client

	allowed map[string]bool
}

// NewLanguageVocabulary creates a vocabulary backed by the given
// endpoint. An empty endpoint selects the production Metax one.
func NewLanguageVocabulary(endpoint string) *LanguageVocabulary {
	if endpoint == "" {
		endpoint = DefaultLanguageEndpoint
	}
	return &LanguageVocabulary{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// IsAllowed reports whether the given URI is in the vocabulary. The
// first call fetches the vocabulary; a failed fetch is returned to the
// caller rather than treating unverified URIs as valid.
func (v *LanguageVocabulary) IsAllowed(ctx context.Context, uri string) (bool, error) {
	if v.allowed == nil {
		if err := v.fetch(ctx); err != nil {
			return false, err
		}
	}
	return v.allowed[uri], nil
}

// Invalidate discards the cached vocabulary.
func (v *LanguageVocabulary) Invalidate() {
	v.allowed = nil
}

func (v *LanguageVocabulary) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.endpoint, nil)
	if err != nil {
		return fmt.Errorf("building language vocabulary request: %w", err)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching language vocabulary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching language vocabulary: HTTP %s", resp.Status)
	}

	var body struct {
		Hits struct {
			Hits []struct {
				Source struct {
					URI string `json:"uri"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("decoding language vocabulary response: %w", err)
	}

	allowed := make(map[string]bool, len(body.Hits.Hits))
	for _, hit := range body.Hits.Hits {
		allowed[hit.Source.URI] = true
	}
	v.allowed = allowed
	return nil
}
