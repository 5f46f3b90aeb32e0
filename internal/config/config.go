package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const DefaultPath = "config/config.toml"

type DataConfig struct {
	Dir     string `toml:"dir"`
	Archive string `toml:"archive"`
}

type ServerConfig struct {
	Port                string `toml:"port"`
	InteractionsPerPage int    `toml:"interactions_per_page"`
	SearchPageSize      int    `toml:"search_page_size"`
	SuggestPageSize     int    `toml:"suggest_page_size"`
}

// MemgraphConfig configures the search backend. Search is disabled when URI
// is empty. IndexName defaults to one index per snapshot version.
type MemgraphConfig struct {
	URI       string `toml:"uri"`
	User      string `toml:"user"`
	Password  string `toml:"password"`
	IndexName string `toml:"index_name"`
}

type LogConfig struct {
	Debug bool `toml:"debug"`
}

type Config struct {
	Data     DataConfig     `toml:"data"`
	Server   ServerConfig   `toml:"server"`
	Memgraph MemgraphConfig `toml:"memgraph"`
	Log      LogConfig      `toml:"log"`
}

func Defaults() *Config {
	return &Config{
		Data: DataConfig{Dir: "data"},
		Server: ServerConfig{
			Port:                "8080",
			InteractionsPerPage: 50,
			SearchPageSize:      10,
			SuggestPageSize:     5,
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return cfg, nil
}

// SearchIndex is the name of the search index for the snapshot with the
// given version.
func (m MemgraphConfig) SearchIndex(version string) string {
	if m.IndexName != "" {
		return m.IndexName
	}
	return "agent_" + version
}

// ApplyEnv overrides cfg with any of the supported environment variables
// that are set.
func (cfg *Config) ApplyEnv() error {
	overrides := map[string]*string{
		"SUPP_DATA_DIR":     &cfg.Data.Dir,
		"SUPP_DATA_ARCHIVE": &cfg.Data.Archive,
		"PORT":              &cfg.Server.Port,
		"MEMGRAPH_URI":      &cfg.Memgraph.URI,
		"MEMGRAPH_USER":     &cfg.Memgraph.User,
		"MEMGRAPH_PASSWORD": &cfg.Memgraph.Password,
		"SUPP_INDEX_NAME":   &cfg.Memgraph.IndexName,
	}
	for key, field := range overrides {
		if v := os.Getenv(key); v != "" {
			*field = v
		}
	}

	if v := os.Getenv("DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DEBUG value %q: %w", v, err)
		}
		cfg.Log.Debug = debug
	}
	return nil
}
