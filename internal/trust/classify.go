package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ppiankov/neurograph/internal/cache"
	"github.com/ppiankov/neurograph/internal/model"
)

// ClassificationClient queries OpenAlex for the registered type and
// retraction status of a DOI.
type ClassificationClient struct {
	remote  *remoteClient
	baseURL string
}

func NewClassificationClient(remote *remoteClient, baseURL string) *ClassificationClient {
	return &ClassificationClient{remote: remote, baseURL: baseURL}
}

type openAlexWork struct {
	Type        string `json:"type"`
	IsRetracted bool   `json:"is_retracted"`
}

// Classification is what the registry knows about a published work.
type Classification struct {
	DocumentType model.DocumentType
	Retracted    bool
}

// Classify resolves a DOI to a document type and retraction flag.
func (c *ClassificationClient) Classify(ctx context.Context, doi string) (Classification, error) {
	endpoint := fmt.Sprintf("%s/works/doi:%s", c.baseURL, url.PathEscape(doi))

	body, err := c.remote.get(ctx, "classification", cache.LookupKey("classification", doi), endpoint, nil)
	if err != nil {
		return Classification{}, err
	}

	var work openAlexWork
	if err := json.Unmarshal(body, &work); err != nil {
		return Classification{}, fmt.Errorf("%w: classification: decode: %v", model.ErrNetworkUnavailable, err)
	}

	return Classification{
		DocumentType: documentTypeFromRegistry(work.Type),
		Retracted:    work.IsRetracted,
	}, nil
}

// documentTypeFromRegistry maps OpenAlex work types onto the trust model's
// coarser document taxonomy.
func documentTypeFromRegistry(workType string) model.DocumentType {
	switch workType {
	case "article", "review", "journal-article":
		return model.DocTypePeerReviewed
	case "preprint", "posted-content":
		return model.DocTypePreprint
	case "book", "book-chapter", "monograph", "report", "dissertation":
		return model.DocTypeGreyLiterature
	default:
		return model.DocTypeUnclassified
	}
}
