package model

import "time"

// Document identifies an ingested source. Created once per ingestion run;
// metadata is immutable after the trust assessment has been attached.
type Document struct {
	ID         string    `json:"id"`                    // Stable identifier (normalized source path)
	Title      string    `json:"title"`                 // Human-readable title
	DOI        string    `json:"doi,omitempty"`         // DOI if present in metadata or detected in text
	SourcePath string    `json:"source_path,omitempty"` // Original file location
	IngestedAt time.Time `json:"ingested_at"`
}

// Provenance records how a document's credibility score was derived
type Provenance string

const (
	ProvenanceExternalVerified Provenance = "EXTERNAL_VERIFIED" // Citation and classification lookups both succeeded remotely
	ProvenanceLocalHeuristic   Provenance = "LOCAL_HEURISTIC"   // Local classification only, no bibliometric data
	ProvenanceUnknown          Provenance = "UNKNOWN"           // No usable signal; score is zero
)

// DocumentType classifies the publication tier of a source
type DocumentType string

const (
	DocTypePeerReviewed   DocumentType = "PEER_REVIEWED"
	DocTypePreprint       DocumentType = "PREPRINT"
	DocTypeGreyLiterature DocumentType = "GREY_LITERATURE"
	DocTypeUnclassified   DocumentType = "UNCLASSIFIED"
)

// ParseDocumentType maps a classifier label to a DocumentType.
// Unrecognized labels degrade to UNCLASSIFIED rather than erroring.
func ParseDocumentType(label string) DocumentType {
	switch normalizeLabel(label) {
	case "PEER_REVIEWED", "JOURNAL_ARTICLE", "ARTICLE", "EXPERIMENTAL_STUDY", "REVIEW_ARTICLE":
		return DocTypePeerReviewed
	case "PREPRINT", "POSTED_CONTENT":
		return DocTypePreprint
	case "GREY_LITERATURE", "REPORT", "LECTURE_SLIDES", "TEXTBOOK", "BOOK", "BOOK_CHAPTER", "POPULAR_SCIENCE":
		return DocTypeGreyLiterature
	default:
		return DocTypeUnclassified
	}
}

// TrustAssessment is the outcome of trust scoring for one document in one run.
// Immutable once produced; re-ingestion recomputes a fresh assessment.
type TrustAssessment struct {
	Score         float64      `json:"score"`                    // Credibility in [0,1]
	Provenance    Provenance   `json:"provenance"`               // How the score was derived
	DocumentType  DocumentType `json:"document_type"`            // Publication tier
	CitationCount *int         `json:"citation_count,omitempty"` // Only present on the verified path
	Retracted     bool         `json:"retracted,omitempty"`      // Retraction flag from the classification service
	Rationale     string       `json:"rationale,omitempty"`      // Short explanation from the classifier
}

// UnknownAssessment returns the zero-trust assessment used when every
// scoring path has failed. Merges always carry an assessment, never nil.
func UnknownAssessment() TrustAssessment {
	return TrustAssessment{
		Score:        0,
		Provenance:   ProvenanceUnknown,
		DocumentType: DocTypeUnclassified,
	}
}
