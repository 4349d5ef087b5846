package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/ppiankov/neurograph/internal/model"
)

// Relationship type is fixed; the predicate is a property so that MERGE can
// key on it. Cypher cannot parameterize relationship types.
const relType = "RELATES"

// upsertConceptCypher keeps an existing concept's display name: first
// writer wins, later mentions only confirm the node.
const upsertConceptCypher = `
MERGE (c:Concept {key: $key})
ON CREATE SET c.name = $name, c.type = $type, c.created_at = datetime()
`

// upsertRelationCypher applies the full lifecycle in one statement so the
// decision is atomic per key under concurrent merges. Every occurrence bumps
// evidence bookkeeping; confidence and trust move only while the relation
// is still PROVISIONAL.
const upsertRelationCypher = `
MATCH (s:Concept {key: $source})
MATCH (t:Concept {key: $target})
MERGE (s)-[r:` + relType + ` {predicate: $predicate}]->(t)
ON CREATE SET r.status = 'PROVISIONAL', r.confidence = $confidence, r.evidence_count = 0
SET r.evidence_count = r.evidence_count + 1,
    r.last_seen = datetime(),
    r.document_id = $documentID,
    r.chunk_id = $chunkID
FOREACH (_ IN CASE WHEN r.status = 'PROVISIONAL' THEN [1] ELSE [] END |
  SET r.confidence = CASE WHEN $confidence > r.confidence THEN $confidence ELSE r.confidence END,
      r.trust_score = $trustScore,
      r.trust_provenance = $trustProvenance,
      r.trust_document_type = $trustDocumentType
)
RETURN r.status AS status
`

// relationColumns is the projection relationFromRecord decodes.
const relationColumns = `
RETURN s.name AS source_name, s.type AS source_type,
       t.name AS target_name, t.type AS target_type,
       r.predicate AS predicate, r.status AS status, r.confidence AS confidence,
       r.trust_score AS trust_score, r.trust_provenance AS trust_provenance,
       r.trust_document_type AS trust_document_type,
       r.evidence_count AS evidence_count,
       r.document_id AS document_id, r.chunk_id AS chunk_id
`

const provisionalRelationsCypher = `
MATCH (s:Concept)-[r:` + relType + `]->(t:Concept)
WHERE r.status = 'PROVISIONAL'` + relationColumns + `
ORDER BY r.trust_score DESC, r.confidence DESC, r.predicate ASC
`

// findRelationsCypher resolves reviewer-supplied names regardless of
// status. Concept keys embed the normalized name before the type, so a
// prefix match covers every typed variant of a name.
const findRelationsCypher = `
MATCH (s:Concept)-[r:` + relType + ` {predicate: $predicate}]->(t:Concept)
WHERE s.key STARTS WITH $subjectPrefix AND t.key STARTS WITH $targetPrefix` + relationColumns + `
ORDER BY s.key ASC, t.key ASC
`

// validateRelationCypher promotes in the same statement that reads the prior
// status, so two concurrent commits cannot both observe PROVISIONAL.
const validateRelationCypher = `
MATCH (s:Concept {key: $source})-[r:` + relType + ` {predicate: $predicate}]->(t:Concept {key: $target})
WITH r, r.status AS previous
SET r.status = CASE WHEN r.status = 'PROVISIONAL' THEN 'VALIDATED' ELSE r.status END
RETURN previous
`

const upsertDocumentCypher = `
MERGE (d:Document {id: $id})
SET d.title = $title,
    d.doi = $doi,
    d.source_path = $sourcePath,
    d.trust_score = $trustScore,
    d.trust_provenance = $trustProvenance,
    d.ingested_at = datetime($ingestedAt)
`

// Neo4jStore persists the knowledge graph through the official driver.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore connects to the configured instance and verifies
// connectivity before returning.
func NewNeo4jStore(ctx context.Context, cfg model.GraphConfig) (*Neo4jStore, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
	}

	store := &Neo4jStore{driver: driver, database: cfg.Database}
	if err := store.Ping(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, err
	}
	return store, nil
}

func (s *Neo4jStore) run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.driver, query, params,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(s.database),
	)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	return result, nil
}

// wrapStoreErr marks driver failures as a store outage. Context
// expiry is the caller's doing, not the store's, and passes through
// unwrapped so an aborted query is never mistaken for a dead store.
func wrapStoreErr(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", model.ErrStoreUnavailable, err)
}

func (s *Neo4jStore) UpsertConcept(ctx context.Context, concept model.Concept) (bool, error) {
	result, err := s.run(ctx, upsertConceptCypher, map[string]any{
		"key":  string(concept.Key()),
		"name": concept.Name,
		"type": string(concept.Type),
	})
	if err != nil {
		return false, err
	}
	return result.Summary.Counters().NodesCreated() > 0, nil
}

func (s *Neo4jStore) UpsertRelation(ctx context.Context, relation model.Relation) (UpsertOutcome, error) {
	result, err := s.run(ctx, upsertRelationCypher, map[string]any{
		"source":            string(relation.Source.Key()),
		"target":            string(relation.Target.Key()),
		"predicate":         relation.Predicate,
		"confidence":        relation.Confidence,
		"trustScore":        relation.Trust.Score,
		"trustProvenance":   string(relation.Trust.Provenance),
		"trustDocumentType": string(relation.Trust.DocumentType),
		"documentID":        relation.Evidence.DocumentID,
		"chunkID":           relation.Evidence.ChunkID,
	})
	if err != nil {
		return OutcomeUpdated, err
	}

	if result.Summary.Counters().RelationshipsCreated() > 0 {
		return OutcomeCreated, nil
	}

	if len(result.Records) == 0 {
		return OutcomeUpdated, fmt.Errorf("%w: relation upsert returned no rows for %s", model.ErrStoreUnavailable, relation.Key())
	}
	status, _ := result.Records[0].Get("status")
	if statusStr, ok := status.(string); ok && model.RelationStatus(statusStr) == model.StatusValidated {
		return OutcomeSkippedValidated, nil
	}
	return OutcomeUpdated, nil
}

func (s *Neo4jStore) ProvisionalRelations(ctx context.Context, limit int) ([]model.Relation, error) {
	query := provisionalRelationsCypher
	params := map[string]any{}
	if limit > 0 {
		query += "LIMIT $limit"
		params["limit"] = limit
	}

	result, err := s.run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	relations := make([]model.Relation, 0, len(result.Records))
	for _, record := range result.Records {
		relations = append(relations, relationFromRecord(record))
	}
	return relations, nil
}

func (s *Neo4jStore) FindRelations(ctx context.Context, subject, predicate, object string) ([]model.Relation, error) {
	result, err := s.run(ctx, findRelationsCypher, map[string]any{
		"subjectPrefix": model.NormalizeName(subject) + "|",
		"targetPrefix":  model.NormalizeName(object) + "|",
		"predicate":     model.NormalizePredicate(predicate),
	})
	if err != nil {
		return nil, err
	}

	relations := make([]model.Relation, 0, len(result.Records))
	for _, record := range result.Records {
		relations = append(relations, relationFromRecord(record))
	}
	return relations, nil
}

func (s *Neo4jStore) ValidateRelation(ctx context.Context, key model.RelationKey) (bool, error) {
	result, err := s.run(ctx, validateRelationCypher, map[string]any{
		"source":    string(key.Source),
		"target":    string(key.Target),
		"predicate": key.Predicate,
	})
	if err != nil {
		return false, err
	}
	if len(result.Records) == 0 {
		return false, fmt.Errorf("relation %s not found", key)
	}

	previous, _ := result.Records[0].Get("previous")
	previousStr, _ := previous.(string)
	return model.RelationStatus(previousStr) == model.StatusProvisional, nil
}

func (s *Neo4jStore) UpsertDocument(ctx context.Context, doc model.Document, trust model.TrustAssessment) error {
	_, err := s.run(ctx, upsertDocumentCypher, map[string]any{
		"id":              doc.ID,
		"title":           doc.Title,
		"doi":             doc.DOI,
		"sourcePath":      doc.SourcePath,
		"trustScore":      trust.Score,
		"trustProvenance": string(trust.Provenance),
		"ingestedAt":      doc.IngestedAt.UTC().Format(time.RFC3339),
	})
	return err
}

func (s *Neo4jStore) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return wrapStoreErr(err)
	}
	return nil
}

func (s *Neo4jStore) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

func relationFromRecord(record *neo4j.Record) model.Relation {
	rel := model.Relation{
		Source: model.Concept{
			Name: stringValue(record, "source_name"),
			Type: model.ConceptType(stringValue(record, "source_type")),
		},
		Target: model.Concept{
			Name: stringValue(record, "target_name"),
			Type: model.ConceptType(stringValue(record, "target_type")),
		},
		Predicate:  stringValue(record, "predicate"),
		Status:     model.RelationStatus(stringValue(record, "status")),
		Confidence: floatValue(record, "confidence"),
		Trust: model.TrustAssessment{
			Score:        floatValue(record, "trust_score"),
			Provenance:   model.Provenance(stringValue(record, "trust_provenance")),
			DocumentType: model.DocumentType(stringValue(record, "trust_document_type")),
		},
		Evidence: model.ChunkRef{
			DocumentID: stringValue(record, "document_id"),
			ChunkID:    stringValue(record, "chunk_id"),
		},
	}
	rel.EvidenceCount = intValue(record, "evidence_count")
	return rel
}

func stringValue(record *neo4j.Record, key string) string {
	if val, ok := record.Get(key); ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

func floatValue(record *neo4j.Record, key string) float64 {
	if val, ok := record.Get(key); ok {
		switch v := val.(type) {
		case float64:
			return v
		case int64:
			return float64(v)
		}
	}
	return 0
}

func intValue(record *neo4j.Record, key string) int {
	if val, ok := record.Get(key); ok {
		if n, ok := val.(int64); ok {
			return int(n)
		}
	}
	return 0
}
