package extract

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/neurograph/internal/llm"
	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/util"
)

// TripleExtractor turns a chunk into candidate triples via the reasoning
// capability. Chunks with an image go through the vision capability first;
// the description is appended to the chunk text before extraction.
type TripleExtractor struct {
	provider    llm.Provider
	visionModel string
	config      model.ExtractConfig
}

// NewTripleExtractor creates a new extractor on top of a capability provider
func NewTripleExtractor(provider llm.Provider, visionModel string, config model.ExtractConfig) *TripleExtractor {
	return &TripleExtractor{
		provider:    provider,
		visionModel: visionModel,
		config:      config,
	}
}

// Extract produces candidate triples for one chunk.
// Unparseable output yields ErrCapabilityUnparseable (chunk-fatal only);
// a dead capability yields ErrCapabilityUnreachable (document-fatal).
func (e *TripleExtractor) Extract(ctx context.Context, chunk model.Chunk) ([]model.RawTriple, error) {
	content := strings.TrimSpace(chunk.Text)

	if len(chunk.Image) > 0 {
		description, err := e.describeImage(ctx, chunk.Image)
		if err != nil {
			// A dead vision service kills the document; a bad single
			// description only loses that figure's signal.
			if isUnreachable(err) {
				return nil, err
			}
		} else if description != "" {
			content = content + "\n\nFIGURE DESCRIPTION:\n" + description
		}
	}

	if len(content) < e.config.MinContentChars {
		return nil, nil
	}
	if e.config.MaxContentChars > 0 {
		content = util.TruncateRunes(content, e.config.MaxContentChars)
	}

	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Template:    llm.TemplateTripleExtraction,
		Prompt:      llm.RenderTripleExtraction(content),
		System:      llm.SystemFor(llm.TemplateTripleExtraction),
		Temperature: 0, // Deterministic structured output
		JSONOnly:    true,
	})
	if err != nil {
		return nil, fmt.Errorf("extract chunk %s: %w", chunk.ID, err)
	}

	result := Decode(resp.Text, e.config.DefaultConfidence)
	if !result.OK() {
		return nil, fmt.Errorf("chunk %s: %w", chunk.ID, model.ErrCapabilityUnparseable)
	}

	return result.Triples, nil
}

// describeImage asks the vision capability for a figure description.
func (e *TripleExtractor) describeImage(ctx context.Context, image []byte) (string, error) {
	resp, err := e.provider.Complete(ctx, llm.CompletionRequest{
		Template:    llm.TemplateImageDescription,
		Prompt:      llm.RenderImageDescription(),
		Model:       e.visionModel,
		ImageB64:    base64.StdEncoding.EncodeToString(image),
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func isUnreachable(err error) bool {
	return errors.Is(err, model.ErrCapabilityUnreachable)
}
