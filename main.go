package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/protagonist/common"
	"github.com/milk9111/protagonist/config"
	"github.com/milk9111/protagonist/logging"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config.yaml", "config file; the embedded defaults are used when it does not exist")
	debug := flag.Bool("debug", false, "enable debug logging and overlays")
	state := flag.String("state", "", "persisted scene state to resume (Menu, Gameplay)")
	replay := flag.String("replay", "", "play a recorded input file instead of the keyboard")
	script := flag.String("script", "", "drive input from a tengo script")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.New(cfg.Logging, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth*2, common.BaseHeight*2)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(tps(cfg))

	game, err := NewGame(cfg, logger, Options{
		ConfigPath: *configPath,
		Debug:      *debug,
		State:      *state,
		Replay:     *replay,
		Script:     *script,
	})
	if err != nil {
		logger.Fatal("setup failed", zap.Error(err))
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("game exited", zap.Error(err))
	}
}
