package transformlab

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the tunables read from the optional TOML config file.
type Config struct {
	Window struct {
		Width  int    `toml:"width"`
		Height int    `toml:"height"`
		Title  string `toml:"title"`
	} `toml:"window"`
	Controls struct {
		MouseSensitivity float32 `toml:"mouse_sensitivity"`
		MoveSpeed        float32 `toml:"move_speed"`
	} `toml:"controls"`
	Log struct {
		Debug bool `toml:"debug"`
	} `toml:"log"`
}

func DefaultConfig() Config {
	var cfg Config
	cfg.Window.Width = 800
	cfg.Window.Height = 600
	cfg.Window.Title = "transformlab"
	cfg.Controls.MouseSensitivity = defaultSensitivity
	cfg.Controls.MoveSpeed = defaultCameraSpeed
	return cfg
}

// LoadConfig reads a TOML config from path. A missing file is not an
// error: the defaults are returned unchanged. Values absent from the
// file keep their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
