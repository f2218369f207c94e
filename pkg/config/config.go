// Package config loads client configuration, including the injected query
// service credentials. Credentials live in the config file, never in source.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/SubhamSharma-IITM/dost-chat/pkg/dost"
)

// Config is the client configuration.
type Config struct {
	// Endpoint is the base URL of the query service.
	Endpoint string `toml:"endpoint"`

	// Presets are suggested queries offered on an empty conversation.
	Presets []string `toml:"presets"`

	// HistoryPath is the SQLite conversation history database. Empty keeps
	// history in memory only.
	HistoryPath string `toml:"history_path"`

	// LogFile receives structured logs; the TUI owns stdout.
	LogFile string `toml:"log_file"`

	// Debug enables debug-level logging.
	Debug bool `toml:"debug"`

	Auth  Auth  `toml:"auth"`
	Audio Audio `toml:"audio"`
}

// Auth carries the injected query service credentials.
type Auth struct {
	Bearer    string `toml:"bearer"`
	StudentID string `toml:"student_id"`
}

// Audio configures the microphone capture command.
type Audio struct {
	Command string   `toml:"command"`
	Args    []string `toml:"args"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Endpoint: "https://acadza-params-api.onrender.com",
		LogFile:  filepath.Join(os.TempDir(), "dost-chat.log"),
		Audio: Audio{
			Command: "arecord",
			Args:    []string{"-q", "-f", "cd", "-t", "wav"},
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "dost.toml"
	}
	return filepath.Join(home, ".config", "dost", "dost.toml")
}

// Load reads a TOML config file over the defaults. A missing file returns
// the defaults; a malformed one is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return cfg, nil
}

// Credentials converts the auth section to the client's credential type.
func (c Config) Credentials() dost.Credentials {
	return dost.Credentials{Bearer: c.Auth.Bearer, StudentID: c.Auth.StudentID}
}
