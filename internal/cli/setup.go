package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/neurograph/internal/cache"
	"github.com/ppiankov/neurograph/internal/extract"
	"github.com/ppiankov/neurograph/internal/graph"
	"github.com/ppiankov/neurograph/internal/llm"
	"github.com/ppiankov/neurograph/internal/model"
	"github.com/ppiankov/neurograph/internal/pipeline"
	"github.com/ppiankov/neurograph/internal/trust"
	"github.com/ppiankov/neurograph/internal/util"
	"github.com/ppiankov/neurograph/internal/worker"
)

// loadConfig builds the effective configuration: defaults, then the config
// file, then environment variables. Command flags override on top in the
// individual commands.
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if path := viper.ConfigFileUsed(); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Secrets come from the environment, never the config file.
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.LLM.APIKey = key
	}
	if key := os.Getenv("SEMANTIC_SCHOLAR_API_KEY"); key != "" {
		cfg.Trust.CitationAPIKey = key
	}
	if pass := os.Getenv("NEUROGRAPH_GRAPH_PASSWORD"); pass != "" {
		cfg.Graph.Password = pass
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && cfg.LLM.Provider == "ollama" {
		cfg.LLM.BaseURL = baseURL
	}

	cfg.Output.Verbose = verbose
	return cfg, nil
}

// cacheDir resolves the lookup cache location, defaulting under the home
// config directory.
func cacheDir(cfg *model.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".neurograph", "cache")
}

func buildLookupCache(cfg *model.Config) cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}

	dir := cacheDir(cfg)
	if dir == "" {
		return cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.TTL)
	}
	return cache.NewLayeredCache(cfg.Cache.TTL, dir, cfg.Cache.TTL)
}

// buildIngestor wires the full pipeline from configuration. The returned
// store must be closed by the caller.
func buildIngestor(ctx context.Context, cfg *model.Config) (*pipeline.Ingestor, graph.Store, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("capability provider: %w", err)
	}

	store, err := graph.NewStore(ctx, cfg.Graph)
	if err != nil {
		return nil, nil, err
	}

	scorer := trust.NewScorer(cfg,
		util.NewHTTPClient(cfg.HTTP),
		worker.NewLimiter(cfg.Trust.RequestsPerSecond, 0),
		buildLookupCache(cfg),
		provider,
	)
	extractor := extract.NewTripleExtractor(provider, cfg.LLM.VisionModel, cfg.Extract)

	return pipeline.NewIngestor(scorer, extractor, store, cfg), store, nil
}

// openStore connects to the graph store alone, for review commands.
func openStore(ctx context.Context, cfg *model.Config) (graph.Store, error) {
	return graph.NewStore(ctx, cfg.Graph)
}
