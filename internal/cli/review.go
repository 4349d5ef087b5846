package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/review"
)

var (
	reviewLimit   int
	reviewTimeout time.Duration
)

// reviewCmd represents the review command group
var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Review and validate provisional relations",
	Long: `Review lists the PROVISIONAL relations awaiting human judgement and
commits the ones a reviewer accepts. Validation is one-way: a committed
relation stays VALIDATED through any later re-ingestion.`,
}

var reviewListCmd = &cobra.Command{
	Use:   "list",
	Short: "List provisional relations, highest trust first",
	RunE:  runReviewList,
}

var reviewCommitCmd = &cobra.Command{
	Use:   "commit <subject> <predicate> <object>",
	Short: "Validate one relation by its key",
	Long: `Commit promotes a relation to VALIDATED. The key is matched
case-insensitively on concept names; the predicate accepts either form
("regulates" or "REGULATES").

Example:
  neurograph review commit "serotonin" regulates "mood"`,
	Args: cobra.ExactArgs(3),
	RunE: runReviewCommit,
}

func init() {
	rootCmd.AddCommand(reviewCmd)
	reviewCmd.AddCommand(reviewListCmd)
	reviewCmd.AddCommand(reviewCommitCmd)

	reviewCmd.PersistentFlags().DurationVar(&reviewTimeout, "timeout", time.Minute, "store operation timeout")
	reviewCmd.PersistentFlags().BoolVar(&ingestMemoryStore, "memory-store", false, "use the in-process store instead of Neo4j")
	reviewListCmd.Flags().IntVar(&reviewLimit, "limit", 50, "maximum relations to list (0 for all)")
}

func runReviewList(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), reviewTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestMemoryStore {
		cfg.Graph.Memory = true
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	queue, err := review.NewGateway(store).Queue(ctx, reviewLimit)
	if err != nil {
		return err
	}

	if len(queue) == 0 {
		fmt.Println("No provisional relations.")
		return nil
	}

	fmt.Printf("%-5s %-6s %-6s %s\n", "#", "TRUST", "CONF", "RELATION")
	for i, rel := range queue {
		fmt.Printf("%-5d %-6.2f %-6.2f %s -[%s]-> %s\n",
			i+1, rel.Trust.Score, rel.Confidence,
			rel.Source.Name, rel.Predicate, rel.Target.Name)
		fmt.Printf("      evidence: %s (%d occurrence(s), %s)\n",
			rel.Evidence.ChunkID, rel.EvidenceCount, rel.Trust.Provenance)
	}
	return nil
}

func runReviewCommit(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), reviewTimeout)
	defer cancel()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestMemoryStore {
		cfg.Graph.Memory = true
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close(ctx) }()

	gateway := review.NewGateway(store)
	relations, err := gateway.Resolve(ctx, args[0], args[1], args[2])
	if err != nil {
		return err
	}
	if len(relations) == 0 {
		return fmt.Errorf("no relation matches %s -[%s]-> %s",
			args[0], model.NormalizePredicate(args[1]), args[2])
	}

	keys := make([]model.RelationKey, 0, len(relations))
	for _, rel := range relations {
		keys = append(keys, rel.Key())
	}

	result, err := gateway.Commit(ctx, keys)
	if err != nil {
		return err
	}

	for _, key := range keys {
		fmt.Printf("Validated %s\n", key)
	}
	if result.AlreadyDone > 0 {
		fmt.Printf("(%d of %d were already validated)\n", result.AlreadyDone, len(keys))
	}
	for _, key := range result.Missing {
		fmt.Printf("(%s disappeared before commit)\n", key)
	}
	return nil
}
