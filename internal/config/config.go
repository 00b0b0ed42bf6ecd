package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

const defaultPollSeconds = 25

type Config struct {
	ListenPort     string   `yaml:"listen_port"`
	StateDir       string   `yaml:"state_dir"`
	LogLevel       string   `yaml:"log_level"`
	LogJSON        bool     `yaml:"log_json"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	PollSeconds    int      `yaml:"poll_interval_seconds"`
	Services       Services `yaml:"services"`
}

// PollInterval is the period between automatic profile refreshes.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollSeconds) * time.Second
}

// Services holds one base address per backend. None of the backends know
// about each other; the portal is the only place their data is joined.
type Services struct {
	Identity string `yaml:"identity"`
	Loyalty  string `yaml:"loyalty"`
	Delivery string `yaml:"delivery"`
	Email    string `yaml:"email"`
}

func MustLoad(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	var cfg Config
	if err := yaml.Unmarshal(configFile, &cfg); err != nil {
		panic("can't unmarshal config file")
	}
	cfg.applyDefaults()
	cfg.mustValidate()
	return &cfg
}

// ApplyEnvOverrides lets the environment (or a local .env file loaded before
// this call) override deployment-specific fields without editing the config
// file.
func (c *Config) ApplyEnvOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		c.ListenPort = port
	}
	if dir := os.Getenv("STATE_DIR"); dir != "" {
		c.StateDir = dir
	}
}

func (c *Config) applyDefaults() {
	if c.ListenPort == "" {
		c.ListenPort = "8081"
	}
	if c.StateDir == "" {
		c.StateDir = "state"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PollSeconds == 0 {
		c.PollSeconds = defaultPollSeconds
	}
}

func (c *Config) mustValidate() {
	// The email service is optional: registration still works without it.
	required := map[string]string{
		"services.identity": c.Services.Identity,
		"services.loyalty":  c.Services.Loyalty,
		"services.delivery": c.Services.Delivery,
	}
	for name, value := range required {
		if value == "" {
			panic("config field is required: " + name)
		}
	}
}
