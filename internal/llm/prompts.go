package llm

import "fmt"

// Template enumerates the registered prompt templates. Templates are
// resolved at compile time; there is no string-keyed lookup to typo.
type Template int

const (
	// TemplateTripleExtraction asks for a structured list of
	// (subject, predicate, object) triples from chunk content.
	TemplateTripleExtraction Template = iota

	// TemplateImageDescription asks the vision model to describe a figure.
	TemplateImageDescription

	// TemplateDocTypeClassification asks for a document-type label from
	// title and leading text, used by the local trust fallback.
	TemplateDocTypeClassification
)

func (t Template) String() string {
	switch t {
	case TemplateTripleExtraction:
		return "triple_extraction"
	case TemplateImageDescription:
		return "image_description"
	case TemplateDocTypeClassification:
		return "doc_type_classification"
	default:
		return "unknown"
	}
}

const tripleExtractionSystem = "You are a biomedical knowledge extraction engine. You respond with JSON only, no commentary."

const tripleExtractionBody = `Extract factual knowledge triples from the following document content.

Rules:
- Each triple is {"subject": "...", "subject_type": "...", "predicate": "...", "object": "...", "object_type": "...", "confidence": 0.0-1.0}.
- subject_type and object_type are one of: Anatomy, Molecule, Pathology, Other.
- predicate is a short verb phrase (e.g. "causes", "is part of", "modulates").
- confidence is your certainty that the source states this relation.
- Only extract relations the text actually asserts. Do not invent.

Respond with JSON only: {"triples": [ ... ]}.

CONTENT:
%s`

// RenderTripleExtraction renders the extraction prompt for chunk content.
func RenderTripleExtraction(content string) string {
	return fmt.Sprintf(tripleExtractionBody, content)
}

const imageDescriptionPrompt = `Describe this figure from a scientific document. State what the figure shows: labeled structures, axes, pathways, and the relationships it depicts. Be factual and concise; do not speculate beyond what is visible.`

// RenderImageDescription renders the vision prompt for figure analysis.
func RenderImageDescription() string {
	return imageDescriptionPrompt
}

const docTypeClassificationBody = `Classify the following document based on its title and opening text.

Categories:
- PEER_REVIEWED: journal article, experimental study, review article
- PREPRINT: unreviewed manuscript on a preprint server
- GREY_LITERATURE: textbook, lecture slides, report, popular science
- UNCLASSIFIED: cannot tell

Respond with JSON only: {"document_type": "...", "confidence": 0.0-1.0, "rationale": "brief reason"}.

TITLE: %s

TEXT:
%s`

// RenderDocTypeClassification renders the local classification prompt.
func RenderDocTypeClassification(title, sample string) string {
	return fmt.Sprintf(docTypeClassificationBody, title, sample)
}

// SystemFor returns the system instruction for a template.
func SystemFor(t Template) string {
	switch t {
	case TemplateTripleExtraction, TemplateDocTypeClassification:
		return tripleExtractionSystem
	default:
		return ""
	}
}
