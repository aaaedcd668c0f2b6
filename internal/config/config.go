package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/netanelhadad2009-bit/gymbro-sub002/internal/engine"
)

type Config struct {
	Version string       `yaml:"version" json:"version"`
	Server  ServerConfig `yaml:"server" json:"server"`
	Cache   CacheConfig  `yaml:"cache" json:"cache"`

	// Engine holds the hard-default targets the evaluation engine falls
	// back to when neither the live plan nor the condition provides one.
	Engine engine.Defaults `yaml:"engine" json:"engine"`
}

type ServerConfig struct {
	Port    int    `yaml:"port" json:"port"`
	DataDir string `yaml:"data_dir" json:"data_dir"`
	// DBFile is the SQLite file inside DataDir; empty runs on in-memory
	// repositories (dev/test).
	DBFile string `yaml:"db_file" json:"db_file"`
}

type CacheConfig struct {
	TTLSeconds int `yaml:"ttl_seconds" json:"ttl_seconds"`
	Disabled   bool `yaml:"disabled" json:"disabled"`
}

func (c *Config) ApplyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8087
	}
	if c.Server.DataDir == "" {
		c.Server.DataDir = "data"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	c.Engine.ApplyDefaults()
}

// Load reads the YAML config. A missing file is not an error: the service
// runs on defaults plus environment overrides.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			c := &Config{}
			c.ApplyDefaults()
			c.applyEnv()
			return c, nil
		}
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	c.applyEnv()
	return &c, nil
}
