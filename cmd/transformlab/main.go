package main

import (
	"flag"
	"log"

	"github.com/gekko3d/transformlab"
)

func main() {
	configPath := flag.String("config", "transformlab.toml", "Path to the TOML config file")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := transformlab.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		cfg.Log.Debug = true
	}

	transformlab.NewAppBuilder().
		UseModule(
			transformlab.LoggingModule{Prefix: "transformlab", Debug: cfg.Log.Debug},
			transformlab.TimeModule{},
			transformlab.WindowModule{
				Width:  cfg.Window.Width,
				Height: cfg.Window.Height,
				Title:  cfg.Window.Title,
			},
			transformlab.InputModule{},
			transformlab.CameraModule{
				Sensitivity: cfg.Controls.MouseSensitivity,
				Speed:       cfg.Controls.MoveSpeed,
			},
			transformlab.ShapeRegistryModule{},
			transformlab.SceneModule{},
			transformlab.RendererModule{},
		).
		Build().
		Run()
}
