// Package config loads kbsr's TOML configuration, layered with
// environment and CLI-flag overrides, and validates the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/jwulff/kbsr/internal/kbrserr"
	"github.com/jwulff/kbsr/internal/keybind"
)

// Config is the full set of tunables from spec §6, plus the supplemented
// git-hosted deck remote.
type Config struct {
	TimeoutSecs        int     `koanf:"timeout_secs" validate:"gt=0"`
	MaxAttempts        int     `koanf:"max_attempts" validate:"gte=1"`
	EasyThresholdMs    int     `koanf:"easy_threshold_ms" validate:"gt=0"`
	HardThresholdMs    int     `koanf:"hard_threshold_ms" validate:"gt=0"`
	SuccessDelayMs     int     `koanf:"success_delay_ms" validate:"gte=0"`
	FailedFlashDelayMs int     `koanf:"failed_flash_delay_ms" validate:"gte=0"`
	PauseKeybind       string  `koanf:"pause_keybind" validate:"required"`
	QuitKeybind        string  `koanf:"quit_keybind" validate:"required"`
	ShuffleCards       bool    `koanf:"shuffle_cards"`
	DesiredRetention   float64 `koanf:"desired_retention" validate:"gt=0,lte=1"`
	IntervalModifier   float64 `koanf:"interval_modifier" validate:"gt=0"`
	MaxIntervalDays    float64 `koanf:"max_interval_days" validate:"gt=0"`
	DecksDir           string  `koanf:"decks_dir"`
	DBPath             string  `koanf:"db_path"`
	DecksGitRemote     string  `koanf:"decks_git_remote"`

	// Parsed forms, populated by Load after validation.
	PauseChord keybind.ChordSeq `koanf:"-"`
	QuitChord  keybind.ChordSeq `koanf:"-"`
}

func defaults() map[string]any {
	return map[string]any{
		"timeout_secs":          10,
		"max_attempts":          3,
		"easy_threshold_ms":     2000,
		"hard_threshold_ms":     5000,
		"success_delay_ms":      500,
		"failed_flash_delay_ms": 500,
		"pause_keybind":         "Super+Ctrl+P",
		"quit_keybind":          "Super+Ctrl+Q",
		"shuffle_cards":         true,
		"desired_retention":     0.9,
		"interval_modifier":     0.12,
		"max_interval_days":     30.0,
	}
}

// Load builds a Config by layering, in increasing precedence: built-in
// defaults, the TOML file at configPath (if present), KBSR_-prefixed
// environment variables, and any bound pflag flags.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrStorage, fmt.Errorf("load config defaults: %w", err))
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", configPath, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("stat config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("KBSR_", ".", envKeyTransform), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flag overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.DecksDir == "" || cfg.DBPath == "" {
		dirs, err := xdgDefaults()
		if err != nil {
			return nil, err
		}
		if cfg.DecksDir == "" {
			cfg.DecksDir = dirs.decksDir
		}
		if cfg.DBPath == "" {
			cfg.DBPath = dirs.dbPath
		}
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	pauseChord, err := keybind.Parse(cfg.PauseKeybind)
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrInvalidKeybind, fmt.Errorf("pause_keybind %q: %w", cfg.PauseKeybind, err))
	}
	quitChord, err := keybind.Parse(cfg.QuitKeybind)
	if err != nil {
		return nil, kbrserr.Wrap(kbrserr.ErrInvalidKeybind, fmt.Errorf("quit_keybind %q: %w", cfg.QuitKeybind, err))
	}
	cfg.PauseChord = pauseChord
	cfg.QuitChord = quitChord

	return &cfg, nil
}

func envKeyTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, "KBSR_"))
}

type xdgPaths struct {
	decksDir string
	dbPath   string
}

func xdgDefaults() (xdgPaths, error) {
	dataDir, err := os.UserHomeDir()
	if err != nil {
		return xdgPaths{}, fmt.Errorf("resolve home directory: %w", err)
	}
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dataDir = xdg
	} else {
		dataDir = filepath.Join(dataDir, ".local", "share")
	}
	base := filepath.Join(dataDir, "kbsr")
	return xdgPaths{
		decksDir: filepath.Join(base, "decks"),
		dbPath:   filepath.Join(base, "kbsr.db"),
	}, nil
}

// DefaultConfigPath returns "<XDG_CONFIG_HOME>/kbsr/config.toml".
func DefaultConfigPath() (string, error) {
	confDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config directory: %w", err)
	}
	return filepath.Join(confDir, "kbsr", "config.toml"), nil
}
