package sematree

// Config holds the settings the binary layers together from defaults, config
// file, environment and flags. The engine types take explicit parameters;
// Config only feeds the command-line and server surfaces.
type Config struct {
	// Dimensions is the embedding dimension for vectors produced and indexed.
	Dimensions int `mapstructure:"dimensions"`

	// Seed is the embedder seed. Stored and query vectors must share it.
	Seed int64 `mapstructure:"seed"`

	// LeafSize is the maximum number of items per KD-tree leaf.
	LeafSize int `mapstructure:"leaf_size"`

	// SematreeHost is the host:port the HTTP server listens on.
	SematreeHost string `mapstructure:"sematree_host"`

	// AuthSecret, when non-empty, enables bearer-token auth on the API.
	AuthSecret string `mapstructure:"auth_secret"`

	// LLMServer is the base URL of an OpenAI-compatible completion server.
	LLMServer string `mapstructure:"llm_server"`

	// LLMModel is the model name sent with completion requests.
	LLMModel string `mapstructure:"llm_model"`

	// LLMKey is the API key for the completion server, if it wants one.
	LLMKey string `mapstructure:"llm_key"`

	// ResultsFolder is where benchmark CSV files are written.
	ResultsFolder string `mapstructure:"results_folder"`
}

var globalConfig Config

func init() {
	globalConfig = DefaultConfig()
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		Dimensions:    DefaultDimensions,
		Seed:          DefaultSeed,
		LeafSize:      1,
		SematreeHost:  "0.0.0.0:8080",
		LLMServer:     "http://localhost:8000/v1",
		LLMModel:      "local-model",
		ResultsFolder: "results",
	}
}

// Configure replaces the process-wide settings used by the server and CLI
// helpers.
func Configure(cfg Config) {
	globalConfig = cfg
}

// GlobalConfig returns the current process-wide settings.
func GlobalConfig() Config {
	return globalConfig
}
