package config

import (
	"os"
	"path/filepath"

	"hotelier/internal/models"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"rate_limit"`

	Reports struct {
		Dir string `yaml:"dir"`
	} `yaml:"reports"`

	// Rooms seeds the catalog on first start. Ignored once rooms exist.
	Rooms []RoomSeed `yaml:"rooms"`
}

type RoomSeed struct {
	Type   string  `yaml:"type"`
	Number string  `yaml:"number"`
	Rate   float64 `yaml:"rate"`
}

// Load reads configuration from path, falling back to configs/config.yaml.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, err
		}
	} else {
		// Support ${ENV_VAR} placeholders in YAML config.
		data = []byte(os.ExpandEnv(string(data)))
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/hotelier.db"
	}
	if c.Monitoring.HealthCheckPort == 0 {
		c.Monitoring.HealthCheckPort = 8090
	}
	if c.Monitoring.PrometheusPort == 0 {
		c.Monitoring.PrometheusPort = 9090
	}
	if c.RateLimit.RequestsPerSecond <= 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 30
	}
	if c.Reports.Dir == "" {
		c.Reports.Dir = "reports"
	}
	if len(c.Rooms) == 0 {
		c.Rooms = DefaultRooms()
	}
}

// DefaultRooms is the stock catalog used when no seed is configured.
func DefaultRooms() []RoomSeed {
	return []RoomSeed{
		{Type: "Single", Number: "S101", Rate: 1500},
		{Type: "Single", Number: "S102", Rate: 1500},
		{Type: "Double", Number: "D201", Rate: 2500},
		{Type: "Double", Number: "D202", Rate: 2500},
		{Type: "Deluxe", Number: "L301", Rate: 4500},
	}
}

// SeedRooms converts the configured seed into catalog rooms.
func (c *Config) SeedRooms() []models.Room {
	rooms := make([]models.Room, 0, len(c.Rooms))
	for _, r := range c.Rooms {
		rooms = append(rooms, models.Room{Type: r.Type, Number: r.Number, Rate: r.Rate})
	}
	return rooms
}
