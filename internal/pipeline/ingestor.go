// Package pipeline orchestrates a document's journey from chunks to graph
// mutations: trust assessment first, then a bounded extraction fan-out with
// per-chunk merges.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/ppiankov/neurograph/internal/extract"
	"github.com/ppiankov/neurograph/internal/graph"
	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/source"
	"github.com/ppiankov/neurograph/internal/trust"
	"github.com/ppiankov/neurograph/internal/worker"
)

// trustSampleChunks is how many leading chunks feed DOI detection and the
// local classifier.
const trustSampleChunks = 3

// Ingestor runs the extraction and merge pipeline for documents.
type Ingestor struct {
	scorer    *trust.Scorer
	extractor *extract.TripleExtractor
	merger    *graph.Merger
	store     graph.Store
	config    *model.Config
}

func NewIngestor(scorer *trust.Scorer, extractor *extract.TripleExtractor, store graph.Store, cfg *model.Config) *Ingestor {
	return &Ingestor{
		scorer:    scorer,
		extractor: extractor,
		merger:    graph.NewMerger(store),
		store:     store,
		config:    cfg,
	}
}

// chunkJob extracts and merges one chunk. Merging inside the job keeps
// completed work durable: a later cancellation or failure never rolls a
// finished chunk back.
type chunkJob struct {
	chunk     model.Chunk
	extractor *extract.TripleExtractor
	merger    *graph.Merger
	trust     model.TrustAssessment

	// abort cancels the sibling jobs on document-fatal failures.
	abort context.CancelFunc
}

type chunkResult struct {
	chunk   model.Chunk
	triples int
	merge   model.MergeReport
	err     error
}

func (r chunkResult) GetError() error { return r.err }

func (j chunkJob) Execute(ctx context.Context) worker.Result {
	triples, err := j.extractor.Extract(ctx, j.chunk)
	if err != nil {
		if errors.Is(err, model.ErrCapabilityUnreachable) {
			j.abort()
		}
		return chunkResult{chunk: j.chunk, err: err}
	}

	report, err := j.merger.Merge(ctx, triples, j.trust, j.chunk.Ref())
	if err != nil {
		if errors.Is(err, model.ErrStoreUnavailable) {
			j.abort()
		}
		return chunkResult{chunk: j.chunk, triples: len(triples), merge: report, err: err}
	}
	return chunkResult{chunk: j.chunk, triples: len(triples), merge: report}
}

// IngestDocument runs the full pipeline for one document. The returned
// report always reflects the work that completed; Error is set only for
// document-level failures (capability or store down).
func (i *Ingestor) IngestDocument(ctx context.Context, doc model.Document, stream source.Stream) (model.IngestReport, error) {
	report := model.IngestReport{Document: doc, StartedAt: time.Now().UTC()}

	chunks, err := readAll(ctx, stream)
	if err != nil {
		report.Error = err.Error()
		report.FinishedAt = time.Now().UTC()
		return report, fmt.Errorf("read document %s: %w", doc.ID, err)
	}

	sample := leadingSample(chunks)
	if doc.DOI == "" {
		doc.DOI = trust.FindDOI(sample)
	}
	doc.IngestedAt = report.StartedAt

	// Trust is assessed once per run, before any merge, so every relation
	// written for this document carries the same assessment.
	assessment := i.scorer.Assess(ctx, doc, sample)
	report.Document = doc
	report.Trust = assessment

	if err := i.store.UpsertDocument(ctx, doc, assessment); err != nil {
		report.Error = err.Error()
		report.FinishedAt = time.Now().UTC()
		return report, err
	}

	ingestCtx, abort := context.WithCancel(ctx)
	defer abort()

	pool := worker.NewPool(ingestCtx, i.config.Concurrency.ChunkWorkers)
	pool.Start()
	for _, chunk := range chunks {
		pool.Submit(chunkJob{
			chunk:     chunk,
			extractor: i.extractor,
			merger:    i.merger,
			trust:     assessment,
			abort:     abort,
		})
	}
	results := pool.Wait()

	var docErr error
	for _, res := range results {
		chunkRes, ok := res.(chunkResult)
		if !ok {
			continue
		}

		report.TriplesExtracted += chunkRes.triples
		report.Merge.Add(chunkRes.merge)

		switch {
		case chunkRes.err == nil:
			report.ChunksProcessed++
		case errors.Is(chunkRes.err, model.ErrCapabilityUnparseable):
			report.ChunksFailed++
			i.logf("ingest: %s: %v", chunkRes.chunk.ID, chunkRes.err)
		default:
			// Capability or store down: the document fails as a whole,
			// keeping whatever already merged.
			report.ChunksFailed++
			if docErr == nil || isDocFatal(chunkRes.err) && !isDocFatal(docErr) {
				docErr = chunkRes.err
			}
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil && docErr == nil {
		docErr = ctxErr
	}

	report.FinishedAt = time.Now().UTC()
	if docErr != nil {
		report.Error = docErr.Error()
		return report, fmt.Errorf("ingest %s: %w", doc.ID, docErr)
	}
	return report, nil
}

// IngestPath ingests one document file from disk.
func (i *Ingestor) IngestPath(ctx context.Context, path string) (model.IngestReport, error) {
	doc := source.DocumentFromPath(path)

	stream, err := source.NewFileStream(doc.ID, path, i.config.Source)
	if err != nil {
		return model.IngestReport{Document: doc, Error: err.Error()}, err
	}
	return i.IngestDocument(ctx, doc, stream)
}

// IngestPaths runs a batch: one failing document does not stop the rest.
// Only a store outage aborts the run early, since nothing further can merge.
func (i *Ingestor) IngestPaths(ctx context.Context, paths []string) ([]model.IngestReport, error) {
	reports := make([]model.IngestReport, 0, len(paths))

	for _, path := range paths {
		report, err := i.IngestPath(ctx, path)
		reports = append(reports, report)

		if err != nil {
			if errors.Is(err, model.ErrStoreUnavailable) {
				return reports, err
			}
			i.logf("ingest: document %s failed: %v", path, err)
		}
		if ctx.Err() != nil {
			return reports, ctx.Err()
		}
	}
	return reports, nil
}

// isDocFatal reports whether an error names one of the document-fatal
// conditions, as opposed to collateral cancellation of a sibling chunk.
func isDocFatal(err error) bool {
	return errors.Is(err, model.ErrCapabilityUnreachable) || errors.Is(err, model.ErrStoreUnavailable)
}

func readAll(ctx context.Context, stream source.Stream) ([]model.Chunk, error) {
	var chunks []model.Chunk
	for {
		chunk, err := stream.Next(ctx)
		if errors.Is(err, io.EOF) {
			return chunks, nil
		}
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, chunk)
	}
}

func leadingSample(chunks []model.Chunk) string {
	sample := ""
	for i, chunk := range chunks {
		if i >= trustSampleChunks {
			break
		}
		if sample != "" {
			sample += "\n\n"
		}
		sample += chunk.Text
	}
	return sample
}

func (i *Ingestor) logf(format string, args ...interface{}) {
	if i.config.Output.Verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
