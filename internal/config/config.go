package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type EditorOptions struct {
	Prompt string `toml:"prompt"`
}

type UIOptions struct {
	PollIntervalMS int `toml:"poll-interval-ms"`
}

type Theme struct {
	Theme                 string `toml:"theme"`
	Foreground            string `toml:"foreground"`
	Background            string `toml:"background"`
	TitleForeground       string `toml:"title-foreground"`
	TitleBackground       string `toml:"title-background"`
	StatusForeground      string `toml:"status-foreground"`
	StatusBackground      string `toml:"status-background"`
	LineNumberForeground  string `toml:"line-number-foreground"`
	CommandlineForeground string `toml:"commandline-foreground"`
	CommandlineBackground string `toml:"commandline-background"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	UI     UIOptions     `toml:"ui"`
	Theme  Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			Prompt: "> ",
		},
		UI: UIOptions{
			PollIntervalMS: 500,
		},
		Theme: Theme{
			Theme:                 "",
			Foreground:            "#B3B1AD",
			Background:            "#0A0E14",
			TitleForeground:       "#B3B1AD",
			TitleBackground:       "#0F1419",
			StatusForeground:      "#B3B1AD",
			StatusBackground:      "#0F1419",
			LineNumberForeground:  "#3E4B59",
			CommandlineForeground: "#B3B1AD",
			CommandlineBackground: "#0F1419",
		},
	}
}

// PollInterval returns the dirty-poll period as a duration.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.UI.PollIntervalMS) * time.Millisecond
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.Prompt != "" {
		cfg.Editor.Prompt = userCfg.Editor.Prompt
	}
	if userCfg.UI.PollIntervalMS > 0 {
		cfg.UI.PollIntervalMS = userCfg.UI.PollIntervalMS
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	return cfg, nil
}

// mergeTheme copies the non-empty color fields of src over dst, leaving the
// named-theme selector alone.
func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.TitleForeground != "" {
		dst.TitleForeground = src.TitleForeground
	}
	if src.TitleBackground != "" {
		dst.TitleBackground = src.TitleBackground
	}
	if src.StatusForeground != "" {
		dst.StatusForeground = src.StatusForeground
	}
	if src.StatusBackground != "" {
		dst.StatusBackground = src.StatusBackground
	}
	if src.LineNumberForeground != "" {
		dst.LineNumberForeground = src.LineNumberForeground
	}
	if src.CommandlineForeground != "" {
		dst.CommandlineForeground = src.CommandlineForeground
	}
	if src.CommandlineBackground != "" {
		dst.CommandlineBackground = src.CommandlineBackground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads a named theme file. Both a bare table and one wrapped in
// [theme] are accepted.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil {
		return t, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return Theme{}, err
	}
	return wrap.Theme, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("VE_CONFIG_HOME"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "ve"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ve"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
