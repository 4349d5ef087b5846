package model

import "time"

// Config is the complete NeuroGraph configuration tree.
// Hierarchy (highest to lowest priority): CLI flags, NEUROGRAPH_* env vars,
// ~/.neurograph/config.yaml, defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http" json:"http"`
	LLM         LLMConfig         `yaml:"llm" json:"llm"`
	Trust       TrustConfig       `yaml:"trust" json:"trust"`
	Extract     ExtractConfig     `yaml:"extract" json:"extract"`
	Source      SourceConfig      `yaml:"source" json:"source"`
	Graph       GraphConfig       `yaml:"graph" json:"graph"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" json:"concurrency"`
	Cache       CacheConfig       `yaml:"cache" json:"cache"`
	Output      OutputConfig      `yaml:"output" json:"output"`
}

// HTTPConfig controls outbound HTTP behavior for remote lookups
type HTTPConfig struct {
	Timeout    time.Duration `yaml:"timeout" json:"timeout"`
	UserAgent  string        `yaml:"user_agent" json:"user_agent"`
	HTTPProxy  string        `yaml:"http_proxy" json:"http_proxy"`
	HTTPSProxy string        `yaml:"https_proxy" json:"https_proxy"`
	NoProxy    string        `yaml:"no_proxy" json:"no_proxy"`
}

// LLMConfig selects and configures the reasoning/vision capability provider
type LLMConfig struct {
	Provider    string `yaml:"provider" json:"provider"`         // "ollama" or "openai"
	Model       string `yaml:"model" json:"model"`               // Reasoning/extraction model
	VisionModel string `yaml:"vision_model" json:"vision_model"` // Image description model
	APIKey      string `yaml:"api_key" json:"-"`                 // Never serialized to JSON output
	BaseURL     string `yaml:"base_url" json:"base_url"`
	Timeout     int    `yaml:"timeout" json:"timeout"` // Seconds per capability call
	MaxTokens   int    `yaml:"max_tokens" json:"max_tokens"`
}

// TrustConfig holds the trust-scoring tuning policy. The exact weighting
// between citations and document type is configuration, not contract.
type TrustConfig struct {
	// TypeWeights maps DocumentType to a base weight in [0,1].
	TypeWeights map[DocumentType]float64 `yaml:"type_weights" json:"type_weights"`

	// LocalDiscount scales local-heuristic scores below the verified path
	// for the same document type. Must be in (0,1).
	LocalDiscount float64 `yaml:"local_discount" json:"local_discount"`

	// CitationInfluence controls how much of the remaining headroom above
	// the type weight citations can claim, in [0,1].
	CitationInfluence float64 `yaml:"citation_influence" json:"citation_influence"`

	// CitationSaturation is the citation count treated as full saturation
	// on the log-normalized scale.
	CitationSaturation int `yaml:"citation_saturation" json:"citation_saturation"`

	// RetractionFloor is the score assigned to retracted works.
	RetractionFloor float64 `yaml:"retraction_floor" json:"retraction_floor"`

	CitationAPIURL       string  `yaml:"citation_api_url" json:"citation_api_url"`
	CitationAPIKey       string  `yaml:"citation_api_key" json:"-"`
	ClassificationAPIURL string  `yaml:"classification_api_url" json:"classification_api_url"`
	MaxRetries           int     `yaml:"max_retries" json:"max_retries"`
	RequestsPerSecond    float64 `yaml:"requests_per_second" json:"requests_per_second"`

	// Offline disables remote lookups entirely, forcing the local path.
	Offline bool `yaml:"offline" json:"offline"`
}

// ExtractConfig tunes triple extraction
type ExtractConfig struct {
	// DefaultConfidence is assigned when the capability does not self-report one.
	DefaultConfidence float64 `yaml:"default_confidence" json:"default_confidence"`

	// MaxContentChars truncates chunk content fed to the extraction prompt.
	MaxContentChars int `yaml:"max_content_chars" json:"max_content_chars"`

	// MinContentChars skips chunks with less usable text than this.
	MinContentChars int `yaml:"min_content_chars" json:"min_content_chars"`
}

// SourceConfig tunes the file chunk reader
type SourceConfig struct {
	MaxChunkChars int `yaml:"max_chunk_chars" json:"max_chunk_chars"`
	MinChunkChars int `yaml:"min_chunk_chars" json:"min_chunk_chars"`
}

// GraphConfig selects and configures the graph store
type GraphConfig struct {
	URI      string `yaml:"uri" json:"uri"` // e.g. neo4j://localhost:7687
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"-"`
	Database string `yaml:"database" json:"database"`

	// Memory switches to the in-process store (tests, dry runs).
	Memory bool `yaml:"memory" json:"memory"`
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	ChunkWorkers int `yaml:"chunk_workers" json:"chunk_workers"`
}

// CacheConfig controls caching of remote bibliometric lookups
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" json:"enabled"`
	Dir     string        `yaml:"dir" json:"dir"`
	TTL     time.Duration `yaml:"ttl" json:"ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// DefaultConfig returns sensible defaults for all sections.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:   8 * time.Second,
			UserAgent: "NeuroGraph/1.0 (+https://github.com/ppiankov/neurograph)",
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3.1:8b-instruct-fp16",
			VisionModel: "llama3.2-vision:11b",
			BaseURL:     "",
			Timeout:     120,
			MaxTokens:   2000,
		},
		Trust: TrustConfig{
			TypeWeights: map[DocumentType]float64{
				DocTypePeerReviewed:   0.90,
				DocTypePreprint:       0.70,
				DocTypeGreyLiterature: 0.50,
				DocTypeUnclassified:   0.30,
			},
			LocalDiscount:        0.75,
			CitationInfluence:    0.8,
			CitationSaturation:   1000,
			RetractionFloor:      0.1,
			CitationAPIURL:       "https://api.semanticscholar.org/graph/v1",
			ClassificationAPIURL: "https://api.openalex.org",
			MaxRetries:           3,
			RequestsPerSecond:    2,
		},
		Extract: ExtractConfig{
			DefaultConfidence: 0.5,
			MaxContentChars:   15000,
			MinContentChars:   50,
		},
		Source: SourceConfig{
			MaxChunkChars: 6000,
			MinChunkChars: 200,
		},
		Graph: GraphConfig{
			URI:      "neo4j://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Concurrency: ConcurrencyConfig{
			ChunkWorkers: 4,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // Resolved to ~/.neurograph/cache at startup
			TTL:     7 * 24 * time.Hour,
		},
		Output: OutputConfig{},
	}
}
