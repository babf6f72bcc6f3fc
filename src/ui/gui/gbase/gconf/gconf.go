package gconf

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

const DefaultFile = "thechess.json"

type Config struct {
	Theme      string `json:"theme"`       // light/dark
	Lang       string `json:"language"`    // en/ru
	WindowH    int    `json:"window_h"`    //
	WindowW    int    `json:"window_w"`    //
	TPS        int    `json:"tps"`         // ticks per second
	Debug      bool   `json:"debug"`       // true/false
	Textures   string `json:"textures"`    // dir with piece images, empty = drawn
	EngineFile string `json:"engine_file"` // file keeping the last selected engine
	EngineMode string `json:"engine_mode"` // stream/stepped
	StepMs     int    `json:"step_ms"`     // search time of one step in stepped mode
	LineLength int    `json:"line_length"` // plies of the shown line

	path string
}

func defaultConfig() Config {
	return Config{
		Theme:      "light",
		Lang:       "en",
		WindowH:    700,
		WindowW:    1000,
		TPS:        60,
		Debug:      false,
		Textures:   "",
		EngineFile: "engine.txt",
		EngineMode: "stream",
		StepMs:     300,
		LineLength: 5,
	}
}

// NewGUIConfig reads the config at path (DefaultFile if empty). A missing
// file gives the defaults.
func NewGUIConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		def := defaultConfig()
		def.path = path
		return &def, nil
	} else if err != nil {
		return nil, err
	}

	conf, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer conf.Close()

	c := defaultConfig()
	dec := json.NewDecoder(conf)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("error decode config: %w", err)
	}
	correctableConfig(&c)
	c.path = path

	return &c, nil
}

func (c *Config) Path() string {
	return c.path
}

func (c *Config) Save() error {
	if c.path == "" {
		c.path = DefaultFile
	}
	jsonData, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, jsonData, 0644)
}

func correctableConfig(c *Config) {
	def := defaultConfig()
	if c.Theme != "light" && c.Theme != "dark" {
		c.Theme = def.Theme
	}
	if c.Lang != "en" && c.Lang != "ru" {
		c.Lang = def.Lang
	}
	if c.WindowH < 400 || c.WindowW < 600 {
		c.WindowH = def.WindowH
		c.WindowW = def.WindowW
	}
	if c.TPS < 10 || c.TPS > 240 {
		c.TPS = def.TPS
	}
	if c.EngineFile == "" {
		c.EngineFile = def.EngineFile
	}
	if c.EngineMode != "stream" && c.EngineMode != "stepped" {
		c.EngineMode = def.EngineMode
	}
	if c.StepMs < 20 {
		c.StepMs = def.StepMs
	}
	if c.LineLength < 1 || c.LineLength > 30 {
		c.LineLength = def.LineLength
	}
}

// ---- Engine path ----

var ErrNoEngine = errors.New("no engine configured")

// LoadEnginePath reads the first line of file.
func LoadEnginePath(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scr := bufio.NewScanner(f)
	if !scr.Scan() {
		if err := scr.Err(); err != nil {
			return "", err
		}
		return "", ErrNoEngine
	}
	path := strings.TrimSpace(scr.Text())
	if path == "" {
		return "", ErrNoEngine
	}
	return path, nil
}

func SaveEnginePath(file, path string) error {
	return os.WriteFile(file, []byte(strings.TrimSpace(path)+"\n"), 0644)
}
