// Package config decodes the server's YAML configuration file into the
// §6 configuration surface: listen endpoint, RSA key paths and game-rule
// defaults advertised to clients.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the decoded snapshot loaded once at startup and copied by
// value into each accepted connection.
type Config struct {
	Network  NetworkConfig  `yaml:"network"`
	Security SecurityConfig `yaml:"security"`
	Game     GameConfig     `yaml:"game"`
}

type NetworkConfig struct {
	IP                   string `yaml:"ip"`
	Port                 int    `yaml:"port"`
	Motd                 string `yaml:"motd"`
	CompressionThreshold int    `yaml:"compression-threshold"`
}

type SecurityConfig struct {
	PrivateKeyPath string `yaml:"private-key"`
	PublicKeyPath  string `yaml:"public-key"`
}

type GameConfig struct {
	Seed                string `yaml:"seed"`
	GameMode            int    `yaml:"game-mode"`
	Hardcore            bool   `yaml:"hardcore"`
	Difficulty          int    `yaml:"difficulty"`
	ViewDistance        int    `yaml:"view-distance"`
	MaxPlayers          int    `yaml:"max-players"`
	ReduceDebugInfo     bool   `yaml:"reduce-debug-info"`
	EnableRespawnScreen bool   `yaml:"enable-respawn-screen"`
}

// Load reads and decodes the YAML file at path, applying defaults for
// any field left unset.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Network.IP == "" {
		cfg.Network.IP = "0.0.0.0"
	}
	if cfg.Network.Port == 0 {
		cfg.Network.Port = 25565
	}
	if cfg.Network.Motd == "" {
		cfg.Network.Motd = "A Minecraft Server"
	}
	if cfg.Network.CompressionThreshold == 0 {
		cfg.Network.CompressionThreshold = 256
	}
	if cfg.Game.ViewDistance == 0 {
		cfg.Game.ViewDistance = 10
	}
	if cfg.Game.MaxPlayers == 0 {
		cfg.Game.MaxPlayers = 20
	}
}
