package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/lixenwraith/prize-wheel/asset"
	"github.com/lixenwraith/prize-wheel/audio"
	"github.com/lixenwraith/prize-wheel/config"
	"github.com/lixenwraith/prize-wheel/engine"
	"github.com/lixenwraith/prize-wheel/logging"
)

type options struct {
	configPath string
	debug      bool
	seed       uint64
	variant    string
	policy     string
	mute       bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	var o options
	fs.StringVar(&o.configPath, "config", "wheel.yaml", "config file, optional")
	fs.BoolVar(&o.debug, "debug", false, "write a debug log")
	fs.Uint64Var(&o.seed, "seed", 0, "spin seed, 0 for random")
	fs.StringVar(&o.variant, "variant", "", "wheel variant: fixed or biased")
	fs.StringVar(&o.policy, "policy", "", "winner policy: post or pre")
	fs.BoolVar(&o.mute, "mute", false, "disable sound")
	err := fs.Parse(args)
	return o, err
}

// apply layers explicit flags over the loaded config
func (o options) apply(cfg *config.Config) error {
	if o.debug {
		cfg.Log.Enabled = true
		cfg.Log.Level = "debug"
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	if o.variant != "" {
		cfg.Variant = o.variant
	}
	if o.policy != "" {
		cfg.Policy = o.policy
	}
	if o.mute {
		cfg.Audio.Enabled = false
	}
	return cfg.Validate()
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "prize-wheel: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	// Terminal must be restored before a panic reaches stderr
	defer func() {
		if r := recover(); r != nil {
			screen.Fini()
			logger.Error("crashed", zap.Any("panic", r))
			fmt.Fprintf(os.Stderr, "\nPRIZE WHEEL CRASHED: %v\nStack Trace:\n%s\n", r, debug.Stack())
			os.Exit(1)
		}
	}()
	defer screen.Fini()

	sound := audio.NewSoundManager(cfg.Audio)
	if err := sound.Initialize(); err != nil {
		logger.Warn("audio unavailable, running silent", zap.Error(err))
	}
	defer sound.Cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.String("variant", cfg.Variant),
		zap.String("policy", cfg.Policy),
		zap.Float64("bias", cfg.Bias),
		zap.Bool("audio", sound.Active()),
	)

	game := engine.NewGame(cfg, engine.Deps{
		Sound:  sound,
		Logger: logger.Logger,
	})
	return game.Run(ctx, screen, asset.Stream(ctx, cfg.ImagePaths()))
}
