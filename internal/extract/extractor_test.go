package extract

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ppiankov/neurograph/internal/llm"
	"github.com/ppiankov/neurograph/internal/model"
)

// fakeProvider scripts capability responses per template
type fakeProvider struct {
	extractionText string
	visionText     string
	extractionErr  error
	visionErr      error
	requests       []llm.CompletionRequest
}

func (p *fakeProvider) Name() string                        { return "fake" }
func (p *fakeProvider) IsAvailable(ctx context.Context) bool { return true }

func (p *fakeProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.requests = append(p.requests, req)
	switch req.Template {
	case llm.TemplateImageDescription:
		if p.visionErr != nil {
			return nil, p.visionErr
		}
		return &llm.CompletionResponse{Text: p.visionText}, nil
	default:
		if p.extractionErr != nil {
			return nil, p.extractionErr
		}
		return &llm.CompletionResponse{Text: p.extractionText}, nil
	}
}

func testConfig() model.ExtractConfig {
	return model.ExtractConfig{DefaultConfidence: 0.5, MaxContentChars: 15000, MinContentChars: 10}
}

func TestTripleExtractor_TextChunk(t *testing.T) {
	provider := &fakeProvider{
		extractionText: `{"triples": [{"subject": "Amygdala", "subject_type": "Anatomy", "predicate": "processes", "object": "Fear responses", "object_type": "Other", "confidence": 0.85}]}`,
	}
	extractor := NewTripleExtractor(provider, "vision-model", testConfig())

	triples, err := extractor.Extract(context.Background(), model.Chunk{
		ID:   "doc1:0",
		Text: "The amygdala processes fear responses.",
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(triples) != 1 {
		t.Fatalf("expected 1 triple, got %d", len(triples))
	}
	if triples[0].Confidence != 0.85 {
		t.Errorf("expected self-reported confidence, got %f", triples[0].Confidence)
	}

	// Text-only chunk must not touch the vision capability.
	for _, req := range provider.requests {
		if req.Template == llm.TemplateImageDescription {
			t.Error("vision capability invoked for a text-only chunk")
		}
	}
}

// Truncating an oversize chunk must land on a rune boundary so the
// capability never receives torn UTF-8.
func TestTripleExtractor_TruncatesOnRuneBoundary(t *testing.T) {
	provider := &fakeProvider{extractionText: `{"triples": []}`}
	cfg := testConfig()
	cfg.MaxContentChars = 61
	extractor := NewTripleExtractor(provider, "vision-model", cfg)

	// 60 ASCII bytes, then a two-byte rune straddling the cut.
	text := strings.Repeat("x", 60) + "αβγ"
	if _, err := extractor.Extract(context.Background(), model.Chunk{ID: "doc1:0", Text: text}); err != nil {
		t.Fatalf("extract: %v", err)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 capability call, got %d", len(provider.requests))
	}
	prompt := provider.requests[0].Prompt
	if !utf8.ValidString(prompt) {
		t.Error("prompt carries invalid UTF-8 after truncation")
	}
	if strings.Contains(prompt, "α") {
		t.Error("content not truncated at the configured bound")
	}
}

func TestTripleExtractor_ImageChunkFeedsDescription(t *testing.T) {
	provider := &fakeProvider{
		visionText:     "Diagram of the mesolimbic dopamine pathway.",
		extractionText: `{"triples": []}`,
	}
	extractor := NewTripleExtractor(provider, "vision-model", testConfig())

	_, err := extractor.Extract(context.Background(), model.Chunk{
		ID:    "doc1:3",
		Text:  "Figure 2 shows the pathway.",
		Image: []byte{0xFF, 0xD8, 0xFF},
	})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	var sawVision bool
	for _, req := range provider.requests {
		if req.Template == llm.TemplateImageDescription {
			sawVision = true
			if req.Model != "vision-model" {
				t.Errorf("expected vision model override, got %q", req.Model)
			}
			if req.ImageB64 == "" {
				t.Error("expected base64 image attached")
			}
		}
		if req.Template == llm.TemplateTripleExtraction {
			if !strings.Contains(req.Prompt, "mesolimbic dopamine pathway") {
				t.Error("expected figure description folded into extraction prompt")
			}
		}
	}
	if !sawVision {
		t.Error("expected vision call for image chunk")
	}
}

func TestTripleExtractor_MalformedOutputIsChunkFatal(t *testing.T) {
	provider := &fakeProvider{extractionText: "no structured facts here, sorry"}
	extractor := NewTripleExtractor(provider, "", testConfig())

	triples, err := extractor.Extract(context.Background(), model.Chunk{ID: "doc1:0", Text: "some chunk content"})
	if !errors.Is(err, model.ErrCapabilityUnparseable) {
		t.Errorf("expected ErrCapabilityUnparseable, got %v", err)
	}
	if len(triples) != 0 {
		t.Errorf("expected zero triples, got %d", len(triples))
	}
}

func TestTripleExtractor_UnreachableCapabilityPropagates(t *testing.T) {
	provider := &fakeProvider{
		extractionErr: fmt.Errorf("%w: connection refused", model.ErrCapabilityUnreachable),
	}
	extractor := NewTripleExtractor(provider, "", testConfig())

	_, err := extractor.Extract(context.Background(), model.Chunk{ID: "doc1:0", Text: "some chunk content"})
	if !errors.Is(err, model.ErrCapabilityUnreachable) {
		t.Errorf("expected ErrCapabilityUnreachable, got %v", err)
	}
}

func TestTripleExtractor_UnreachableVisionIsDocumentFatal(t *testing.T) {
	provider := &fakeProvider{
		visionErr:      fmt.Errorf("%w: connection refused", model.ErrCapabilityUnreachable),
		extractionText: `{"triples": []}`,
	}
	extractor := NewTripleExtractor(provider, "vision-model", testConfig())

	_, err := extractor.Extract(context.Background(), model.Chunk{
		ID:    "doc1:0",
		Text:  "chunk with a figure",
		Image: []byte{1, 2, 3},
	})
	if !errors.Is(err, model.ErrCapabilityUnreachable) {
		t.Errorf("expected ErrCapabilityUnreachable, got %v", err)
	}
}

func TestTripleExtractor_SkipsTinyChunks(t *testing.T) {
	provider := &fakeProvider{extractionText: `{"triples": []}`}
	extractor := NewTripleExtractor(provider, "", testConfig())

	triples, err := extractor.Extract(context.Background(), model.Chunk{ID: "doc1:0", Text: "ok"})
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if triples != nil {
		t.Error("expected no extraction for sub-minimum content")
	}
	if len(provider.requests) != 0 {
		t.Error("expected no capability calls for a skipped chunk")
	}
}
