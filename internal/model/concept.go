package model

import "strings"

// ConceptType categorizes a graph node
type ConceptType string

const (
	ConceptAnatomy   ConceptType = "Anatomy"
	ConceptMolecule  ConceptType = "Molecule"
	ConceptPathology ConceptType = "Pathology"
	ConceptOther     ConceptType = "Other"
)

// ParseConceptType maps an extraction label to a ConceptType.
// Anything unrecognized becomes Other.
func ParseConceptType(label string) ConceptType {
	switch normalizeLabel(label) {
	case "ANATOMY", "ANATOMICAL_STRUCTURE", "REGION", "STRUCTURE":
		return ConceptAnatomy
	case "MOLECULE", "NEUROTRANSMITTER", "PROTEIN", "HORMONE", "COMPOUND", "CHEMICAL":
		return ConceptMolecule
	case "PATHOLOGY", "DISEASE", "DISORDER", "CONDITION", "SYMPTOM":
		return ConceptPathology
	default:
		return ConceptOther
	}
}

// Concept is a deduplicated graph node representing a named entity.
// Uniqueness is enforced under Key(): no two nodes may share a
// normalized (name, type) pair.
type Concept struct {
	Name string      `json:"name"` // Canonical display name
	Type ConceptType `json:"type"`
}

// ConceptKey is the normalized dedup key for a Concept
type ConceptKey string

// Key returns the case-insensitive, whitespace-collapsed dedup key.
func (c Concept) Key() ConceptKey {
	return ConceptKey(NormalizeName(c.Name) + "|" + strings.ToLower(string(c.Type)))
}

// NormalizeName lowercases a concept name and collapses internal whitespace.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// normalizeLabel uppercases a free-form label and squashes separators so
// classifier output like "peer reviewed" or "Peer-Reviewed" compares equal.
func normalizeLabel(label string) string {
	label = strings.TrimSpace(strings.ToUpper(label))
	label = strings.ReplaceAll(label, "-", "_")
	label = strings.ReplaceAll(label, " ", "_")
	return label
}
