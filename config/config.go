// Package config loads the client's YAML configuration, the same
// decode-into-struct shape the teacher's main.go uses for server.yaml.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the client's full startup configuration.
type Config struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	PlayerName string `yaml:"player_name"`
	Lang       string `yaml:"lang"`

	// Usid/UUID are base64 strings as the source's Connect handshake sends
	// them; a config without real values gets the source's own placeholders.
	Usid string `yaml:"usid"`
	UUID string `yaml:"uuid"`

	Mobile bool     `yaml:"mobile"`
	Color  []uint8  `yaml:"color"`
	Mods   []string `yaml:"mods"`

	ContentDir        string `yaml:"content_dir"`
	PersistedMapPath  string `yaml:"persisted_map_path"`
	SnapshotRateHz    int    `yaml:"snapshot_rate_hz"`
}

// Default game port, per §6.
const DefaultPort = 6567

// Source's hardcoded client.rs values, used whenever the config leaves the
// corresponding field at its zero value.
const (
	DefaultProtocolVersion = 146
	DefaultClient          = "official"
	DefaultLang            = "en"
	DefaultUsid            = "AAAAAAAAAAAAAAAAAAAAAA=="
	DefaultUUID            = "AAAAAAAAAAAAAAAAAAAAAA=="
	DefaultSnapshotRateHz  = 5
)

// DefaultColor is the source's hardcoded RGBA color.
var DefaultColor = []uint8{0xff, 0xa1, 0x08, 0xff}

// Load reads and decodes a client.yaml at path, then fills in the source's
// hardcoded defaults for any field the file left unset.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var c Config
	if err := yaml.NewDecoder(f).Decode(&c); err != nil {
		return nil, err
	}

	c.applyDefaults()
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Lang == "" {
		c.Lang = DefaultLang
	}
	if c.Usid == "" {
		c.Usid = DefaultUsid
	}
	if c.UUID == "" {
		c.UUID = DefaultUUID
	}
	if len(c.Color) == 0 {
		c.Color = DefaultColor
	}
	if c.SnapshotRateHz == 0 {
		c.SnapshotRateHz = DefaultSnapshotRateHz
	}
}
