package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/neurograph/internal/model"
)

var (
	ingestWorkers     int
	ingestTimeout     time.Duration
	ingestProvider    string
	ingestModel       string
	ingestNoCache     bool
	ingestOffline     bool
	ingestMemoryStore bool
	graphURI          string
	graphUser         string
	graphDatabase     string
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <path...>",
	Short: "Ingest documents into the knowledge graph",
	Long: `Ingest chunks each document, extracts knowledge triples with the
configured reasoning model, scores the document's credibility, and merges
everything into the graph as PROVISIONAL relations.

Supported inputs: .txt, .md, .html, .xhtml. Figures placed in a sidecar
directory named <stem>_images are described by the vision model and mined
alongside the text.

Example:
  neurograph ingest paper.txt
  neurograph ingest chapters/*.html --workers 8
  neurograph ingest paper.md --offline --memory-store`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "chunk extraction workers (default from config)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 30*time.Minute, "total ingestion timeout")
	ingestCmd.Flags().StringVar(&ingestProvider, "llm-provider", "", "capability provider (ollama, openai)")
	ingestCmd.Flags().StringVar(&ingestModel, "llm-model", "", "reasoning model name")
	ingestCmd.Flags().BoolVar(&ingestNoCache, "no-cache", false, "disable the bibliometric lookup cache")
	ingestCmd.Flags().BoolVar(&ingestOffline, "offline", false, "skip remote trust lookups (local heuristic only)")
	ingestCmd.Flags().BoolVar(&ingestMemoryStore, "memory-store", false, "use the in-process store instead of Neo4j")
	ingestCmd.Flags().StringVar(&graphURI, "graph-uri", "", "Neo4j connection URI")
	ingestCmd.Flags().StringVar(&graphUser, "graph-user", "", "Neo4j username")
	ingestCmd.Flags().StringVar(&graphDatabase, "graph-database", "", "Neo4j database name")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyIngestFlags(cfg)

	ingestor, store, err := buildIngestor(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	if verbose {
		fmt.Fprintf(os.Stderr, "Ingesting %d document(s), %d workers\n", len(args), cfg.Concurrency.ChunkWorkers)
		if cfg.Trust.Offline {
			fmt.Fprintf(os.Stderr, "Trust: offline, local heuristic only\n")
		}
		fmt.Fprintln(os.Stderr)
	}

	reports, runErr := ingestor.IngestPaths(ctx, args)

	failed := 0
	for _, report := range reports {
		status := "ok"
		if report.Failed() {
			status = "FAILED"
			failed++
		}
		fmt.Printf("%-40s %s\n", report.Document.ID, status)
		fmt.Printf("  trust:     %.2f (%s, %s)\n", report.Trust.Score, report.Trust.Provenance, report.Trust.DocumentType)
		fmt.Printf("  chunks:    %d processed, %d failed\n", report.ChunksProcessed, report.ChunksFailed)
		fmt.Printf("  triples:   %d extracted\n", report.TriplesExtracted)
		fmt.Printf("  graph:     +%d concepts, +%d relations, %d updated, %d validated untouched\n",
			report.Merge.ConceptsCreated, report.Merge.RelationsCreated,
			report.Merge.RelationsUpdated, report.Merge.RelationsSkippedValidated)
		if report.Failed() {
			fmt.Printf("  error:     %s\n", report.Error)
		}
		fmt.Println()
	}

	if runErr != nil {
		return fmt.Errorf("ingestion aborted: %w", runErr)
	}
	if failed > 0 {
		fmt.Printf("%d of %d document(s) failed\n", failed, len(reports))
	}
	return nil
}

func applyIngestFlags(cfg *model.Config) {
	if ingestWorkers > 0 {
		cfg.Concurrency.ChunkWorkers = ingestWorkers
	}
	if ingestProvider != "" {
		cfg.LLM.Provider = ingestProvider
	}
	if ingestModel != "" {
		cfg.LLM.Model = ingestModel
	}
	if ingestNoCache {
		cfg.Cache.Enabled = false
	}
	if ingestOffline {
		cfg.Trust.Offline = true
	}
	if ingestMemoryStore {
		cfg.Graph.Memory = true
	}
	if graphURI != "" {
		cfg.Graph.URI = graphURI
	}
	if graphUser != "" {
		cfg.Graph.Username = graphUser
	}
	if graphDatabase != "" {
		cfg.Graph.Database = graphDatabase
	}
}
