package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ppiankov/neurograph/internal/cache"
	"github.com/ppiankov/neurograph/internal/model"
)

// CitationClient queries Semantic Scholar for the citation count of a DOI.
type CitationClient struct {
	remote  *remoteClient
	baseURL string
	apiKey  string
}

func NewCitationClient(remote *remoteClient, baseURL, apiKey string) *CitationClient {
	return &CitationClient{remote: remote, baseURL: baseURL, apiKey: apiKey}
}

type citationResponse struct {
	CitationCount *int `json:"citationCount"`
}

// CitationCount returns the citation count for a DOI. A DOI the service
// does not know, or a service that cannot be reached, both surface as
// ErrNetworkUnavailable so the scorer falls back to local heuristics.
func (c *CitationClient) CitationCount(ctx context.Context, doi string) (int, error) {
	endpoint := fmt.Sprintf("%s/paper/DOI:%s?fields=citationCount", c.baseURL, url.PathEscape(doi))

	headers := map[string]string{}
	if c.apiKey != "" {
		headers["x-api-key"] = c.apiKey
	}

	body, err := c.remote.get(ctx, "citations", cache.LookupKey("citations", doi), endpoint, headers)
	if err != nil {
		return 0, err
	}

	var parsed citationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("%w: citations: decode: %v", model.ErrNetworkUnavailable, err)
	}
	if parsed.CitationCount == nil {
		return 0, fmt.Errorf("%w: citations: no count for %s", model.ErrNetworkUnavailable, doi)
	}
	return *parsed.CitationCount, nil
}
