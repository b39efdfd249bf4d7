package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thesooraj/HangMan-Project/logger"
	"github.com/thesooraj/HangMan-Project/words"
)

type Config struct {
	Game    GameConfig    `mapstructure:"game"`
	Words   WordsConfig   `mapstructure:"words"`
	Input   InputConfig   `mapstructure:"input"`
	Log     logger.Config `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type GameConfig struct {
	Lives       int           `mapstructure:"lives"`
	TurnTimeout time.Duration `mapstructure:"turn_timeout"`
	QuitWord    string        `mapstructure:"quit_word"`
	Tier        string        `mapstructure:"tier"`
}

type WordsConfig struct {
	BasicFile   string `mapstructure:"basic_file"`
	PhrasesFile string `mapstructure:"phrases_file"`
}

type InputConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	Countdown    bool          `mapstructure:"countdown"`
	Interactive  bool          `mapstructure:"interactive"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

const envPrefix = "HANGMAN"

// NewFlagSet declares the command-line overrides. Flag names match config
// keys so they can be bound directly.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", ".", "directory containing config.yaml")
	fs.Int("game.lives", 6, "lives per round")
	fs.Duration("game.turn_timeout", 15*time.Second, "time allowed per turn")
	fs.String("game.quit_word", "quit", "word that ends the round")
	fs.String("game.tier", "", "basic or intermediate; empty asks at startup")
	fs.String("words.basic_file", "words/words_basic.txt", "one word per line")
	fs.String("words.phrases_file", "words/phrases.txt", "one phrase per line")
	fs.Duration("input.poll_interval", time.Second, "readiness poll slice, at most 1s")
	fs.Bool("input.countdown", true, "show the remaining time while waiting")
	fs.Bool("input.interactive", false, "character-level editing on terminals")
	fs.String("log.level", "info", "debug, info, warn or error")
	fs.String("log.file", "hangman.log", "log file; empty disables logging")
	fs.String("metrics.address", "", "serve /metrics on this address")
	return fs
}

// LoadConfig reads config.yaml from path, then applies HANGMAN_* environment
// variables and any flags explicitly set in fs. A missing file is fine.
func LoadConfig(path string, fs *pflag.FlagSet) (config *Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if fs == nil {
		fs = NewFlagSet("hangman")
	}
	if err = v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err = v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the game cannot run with and clamps the poll
// interval into (0, 1s].
func (c *Config) Validate() error {
	if c.Game.Lives <= 0 {
		return fmt.Errorf("game.lives must be positive, got %d", c.Game.Lives)
	}
	if c.Game.TurnTimeout <= 0 {
		return fmt.Errorf("game.turn_timeout must be positive, got %s", c.Game.TurnTimeout)
	}
	if strings.TrimSpace(c.Game.QuitWord) == "" {
		return errors.New("game.quit_word must not be empty")
	}
	if c.Game.Tier != "" {
		if _, err := words.ParseTier(c.Game.Tier); err != nil {
			return fmt.Errorf("game.tier: %w", err)
		}
	}
	if c.Input.PollInterval <= 0 || c.Input.PollInterval > time.Second {
		c.Input.PollInterval = time.Second
	}
	return nil
}
