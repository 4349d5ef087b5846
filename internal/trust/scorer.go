package trust

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"

	"github.com/ppiankov/neurograph/internal/cache"
	"github.com/ppiankov/neurograph/internal/llm"
	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/util"
	"github.com/ppiankov/neurograph/internal/worker"
)

// classificationSampleChars bounds the text fed to the local classifier
const classificationSampleChars = 2000

// Scorer produces a credibility assessment for one document per ingestion
// run. The verified path consults bibliometric services; when those are
// unreachable it degrades to a local classification, and from there to an
// unknown zero-score assessment. Assess never fails the ingestion.
type Scorer struct {
	citations *CitationClient
	registry  *ClassificationClient
	provider  llm.Provider
	config    model.TrustConfig
	verbose   bool
}

// NewScorer wires the scorer from the application config.
func NewScorer(cfg *model.Config, httpClient *http.Client, limiter *worker.Limiter, lookupCache cache.Cache, provider llm.Provider) *Scorer {
	remote := newRemoteClient(httpClient, limiter, lookupCache, cfg.Trust.MaxRetries, cfg.HTTP.UserAgent)

	return &Scorer{
		citations: NewCitationClient(remote, cfg.Trust.CitationAPIURL, cfg.Trust.CitationAPIKey),
		registry:  NewClassificationClient(remote, cfg.Trust.ClassificationAPIURL),
		provider:  provider,
		config:    cfg.Trust,
		verbose:   cfg.Output.Verbose,
	}
}

// Assess scores a document. The result always carries a provenance; callers
// can merge with an UNKNOWN assessment but never with a missing one.
func (s *Scorer) Assess(ctx context.Context, doc model.Document, sample string) model.TrustAssessment {
	doi := doc.DOI
	if doi == "" {
		doi = FindDOI(sample)
	}

	if doi != "" && !s.config.Offline {
		assessment, err := s.assessVerified(ctx, doi)
		if err == nil {
			return assessment
		}
		s.logf("trust: verified path failed for %s: %v", doi, err)
	}

	assessment, err := s.assessLocal(ctx, doc, sample)
	if err == nil {
		return assessment
	}
	s.logf("trust: local classification failed for %s: %v", doc.ID, err)

	return model.UnknownAssessment()
}

// assessVerified runs the two independent remote lookups. Both must answer
// for the result to count as externally verified.
func (s *Scorer) assessVerified(ctx context.Context, doi string) (model.TrustAssessment, error) {
	classification, err := s.registry.Classify(ctx, doi)
	if err != nil {
		return model.TrustAssessment{}, err
	}

	count, err := s.citations.CitationCount(ctx, doi)
	if err != nil {
		return model.TrustAssessment{}, err
	}

	if classification.Retracted {
		return model.TrustAssessment{
			Score:         s.config.RetractionFloor,
			Provenance:    model.ProvenanceExternalVerified,
			DocumentType:  classification.DocumentType,
			CitationCount: &count,
			Retracted:     true,
			Rationale:     "work is marked retracted",
		}, nil
	}

	weight := s.typeWeight(classification.DocumentType)
	score := clamp01(weight + (1-weight)*s.config.CitationInfluence*s.citationNorm(count))

	return model.TrustAssessment{
		Score:         score,
		Provenance:    model.ProvenanceExternalVerified,
		DocumentType:  classification.DocumentType,
		CitationCount: &count,
		Rationale:     fmt.Sprintf("%s with %d citations", classification.DocumentType, count),
	}, nil
}

type localClassification struct {
	DocumentType string  `json:"document_type"`
	Confidence   float64 `json:"confidence"`
	Rationale    string  `json:"rationale"`
}

// assessLocal classifies the document from its title and leading text
// through the reasoning capability. The score uses the same type weight
// table discounted below the verified path.
func (s *Scorer) assessLocal(ctx context.Context, doc model.Document, sample string) (model.TrustAssessment, error) {
	if s.provider == nil {
		return model.TrustAssessment{}, fmt.Errorf("no capability provider configured")
	}

	sample = util.TruncateRunes(sample, classificationSampleChars)

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Template:    llm.TemplateDocTypeClassification,
		Prompt:      llm.RenderDocTypeClassification(doc.Title, sample),
		System:      llm.SystemFor(llm.TemplateDocTypeClassification),
		MaxTokens:   300,
		Temperature: 0,
		JSONOnly:    true,
	})
	if err != nil {
		return model.TrustAssessment{}, err
	}

	var parsed localClassification
	if err := json.Unmarshal([]byte(util.JSONPayload(resp.Text)), &parsed); err != nil {
		return model.TrustAssessment{}, fmt.Errorf("classification response: %w", err)
	}

	docType := model.ParseDocumentType(parsed.DocumentType)
	score := s.typeWeight(docType) * s.config.LocalDiscount

	return model.TrustAssessment{
		Score:        clamp01(score),
		Provenance:   model.ProvenanceLocalHeuristic,
		DocumentType: docType,
		Rationale:    parsed.Rationale,
	}, nil
}

// citationNorm maps a citation count onto [0,1] on a log scale, saturating
// at the configured count.
func (s *Scorer) citationNorm(count int) float64 {
	if count <= 0 {
		return 0
	}
	saturation := s.config.CitationSaturation
	if saturation <= 0 {
		saturation = 1000
	}
	norm := math.Log10(1+float64(count)) / math.Log10(1+float64(saturation))
	if norm > 1 {
		return 1
	}
	return norm
}

func (s *Scorer) typeWeight(docType model.DocumentType) float64 {
	if w, ok := s.config.TypeWeights[docType]; ok {
		return w
	}
	return s.config.TypeWeights[model.DocTypeUnclassified]
}

func (s *Scorer) logf(format string, args ...interface{}) {
	if s.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
