package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
)

type Config struct {
	TabSize int    `json:"tab_size"`
	Theme   string `json:"theme"`
	// Chroma style name for syntax colours. Empty keeps the built-in palette.
	SyntaxTheme string `json:"syntax_theme"`
	// Line-comment prefix. Empty picks one from the file's language.
	CommentPrefix string `json:"comment_prefix"`
	// Interpreter used to run the open file; the path is appended.
	RunCommand []string `json:"run_command"`
	WatchFile  bool     `json:"watch_file"`
}

// LanguageTabSize returns the per-language default or the configured size.
func (c *Config) LanguageTabSize(language string) int {
	switch language {
	case "JavaScript", "TypeScript", "JSON", "HTML", "YAML", "TOML":
		return 2
	case "Python", "Go", "C", "C++", "Rust", "Java":
		return 4
	default:
		return c.TabSize
	}
}

type ColorScheme struct {
	Name             string
	Background       tcell.Color
	Foreground       tcell.Color
	Selection        tcell.Color
	LineNumber       tcell.Color
	LineNumberActive tcell.Color
	StatusBarBg      tcell.Color
	StatusBarFg      tcell.Color
	FindBarBg        tcell.Color
	FindBarFg        tcell.Color
	FindInputBg      tcell.Color
	MatchBg          tcell.Color
	NextMatchBg      tcell.Color
	PrevMatchBg      tcell.Color
	OutputBg         tcell.Color
	OutputFg         tcell.Color
}

var Themes = map[string]*ColorScheme{
	"dark": {
		Name:             "Dark",
		Background:       tcell.ColorBlack,
		Foreground:       tcell.ColorWhite,
		Selection:        tcell.ColorDarkBlue,
		LineNumber:       tcell.ColorGray,
		LineNumberActive: tcell.ColorWhite,
		StatusBarBg:      tcell.ColorDarkBlue,
		StatusBarFg:      tcell.ColorWhite,
		FindBarBg:        tcell.ColorBlack,
		FindBarFg:        tcell.ColorWhite,
		FindInputBg:      tcell.ColorDarkBlue,
		MatchBg:          tcell.ColorBlue,
		NextMatchBg:      tcell.ColorDarkCyan,
		PrevMatchBg:      tcell.ColorYellow,
		OutputBg:         tcell.ColorBlack,
		OutputFg:         tcell.ColorSilver,
	},
	"light": {
		Name:             "Light",
		Background:       tcell.ColorWhite,
		Foreground:       tcell.ColorBlack,
		Selection:        tcell.ColorLightBlue,
		LineNumber:       tcell.ColorGray,
		LineNumberActive: tcell.ColorBlack,
		StatusBarBg:      tcell.ColorLightBlue,
		StatusBarFg:      tcell.ColorBlack,
		FindBarBg:        tcell.ColorWhite,
		FindBarFg:        tcell.ColorBlack,
		FindInputBg:      tcell.ColorLightGray,
		MatchBg:          tcell.ColorLightSkyBlue,
		NextMatchBg:      tcell.ColorAqua,
		PrevMatchBg:      tcell.ColorYellow,
		OutputBg:         tcell.ColorWhite,
		OutputFg:         tcell.ColorBlack,
	},
	"monokai": {
		Name:             "Monokai",
		Background:       tcell.NewRGBColor(39, 40, 34),
		Foreground:       tcell.NewRGBColor(248, 248, 242),
		Selection:        tcell.NewRGBColor(73, 72, 62),
		LineNumber:       tcell.NewRGBColor(144, 144, 128),
		LineNumberActive: tcell.NewRGBColor(248, 248, 242),
		StatusBarBg:      tcell.NewRGBColor(73, 72, 62),
		StatusBarFg:      tcell.NewRGBColor(248, 248, 242),
		FindBarBg:        tcell.NewRGBColor(39, 40, 34),
		FindBarFg:        tcell.NewRGBColor(248, 248, 242),
		FindInputBg:      tcell.NewRGBColor(73, 72, 62),
		MatchBg:          tcell.NewRGBColor(38, 79, 120),
		NextMatchBg:      tcell.NewRGBColor(102, 217, 239),
		PrevMatchBg:      tcell.NewRGBColor(230, 219, 116),
		OutputBg:         tcell.NewRGBColor(30, 31, 26),
		OutputFg:         tcell.NewRGBColor(200, 200, 190),
	},
	"nord": {
		Name:             "Nord",
		Background:       tcell.NewRGBColor(46, 52, 64),
		Foreground:       tcell.NewRGBColor(236, 239, 244),
		Selection:        tcell.NewRGBColor(67, 76, 94),
		LineNumber:       tcell.NewRGBColor(76, 86, 106),
		LineNumberActive: tcell.NewRGBColor(236, 239, 244),
		StatusBarBg:      tcell.NewRGBColor(67, 76, 94),
		StatusBarFg:      tcell.NewRGBColor(236, 239, 244),
		FindBarBg:        tcell.NewRGBColor(46, 52, 64),
		FindBarFg:        tcell.NewRGBColor(236, 239, 244),
		FindInputBg:      tcell.NewRGBColor(67, 76, 94),
		MatchBg:          tcell.NewRGBColor(94, 129, 172),
		NextMatchBg:      tcell.NewRGBColor(136, 192, 208),
		PrevMatchBg:      tcell.NewRGBColor(235, 203, 139),
		OutputBg:         tcell.NewRGBColor(59, 66, 82),
		OutputFg:         tcell.NewRGBColor(216, 222, 233),
	},
	"dracula": {
		Name:             "Dracula",
		Background:       tcell.NewRGBColor(40, 42, 54),
		Foreground:       tcell.NewRGBColor(248, 248, 242),
		Selection:        tcell.NewRGBColor(68, 71, 90),
		LineNumber:       tcell.NewRGBColor(98, 114, 164),
		LineNumberActive: tcell.NewRGBColor(248, 248, 242),
		StatusBarBg:      tcell.NewRGBColor(68, 71, 90),
		StatusBarFg:      tcell.NewRGBColor(248, 248, 242),
		FindBarBg:        tcell.NewRGBColor(40, 42, 54),
		FindBarFg:        tcell.NewRGBColor(248, 248, 242),
		FindInputBg:      tcell.NewRGBColor(68, 71, 90),
		MatchBg:          tcell.NewRGBColor(98, 114, 164),
		NextMatchBg:      tcell.NewRGBColor(139, 233, 253),
		PrevMatchBg:      tcell.NewRGBColor(241, 250, 140),
		OutputBg:         tcell.NewRGBColor(33, 34, 44),
		OutputFg:         tcell.NewRGBColor(248, 248, 242),
	},
}

func Default() *Config {
	return &Config{
		TabSize:    4,
		Theme:      "dark",
		RunCommand: []string{"python3", "-u"},
		WatchFile:  true,
	}
}

func (c *Config) GetTheme() *ColorScheme {
	theme, ok := Themes[c.Theme]
	if !ok {
		return Themes["dark"]
	}
	return theme
}

func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "notepad", "settings.json")
}

// Load reads the settings file over the defaults. A missing file is not an
// error.
func Load() (*Config, error) {
	return LoadFile(ConfigPath())
}

func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.TabSize <= 0 {
		cfg.TabSize = Default().TabSize
	}
	if len(cfg.RunCommand) == 0 {
		cfg.RunCommand = Default().RunCommand
	}
	return cfg, nil
}
