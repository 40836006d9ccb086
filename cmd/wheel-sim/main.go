package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	jsoniter "github.com/json-iterator/go"
	_ "go.uber.org/automaxprocs"

	"github.com/lixenwraith/prize-wheel/config"
	"github.com/lixenwraith/prize-wheel/sim"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "wheel-sim: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("wheel-sim", flag.ContinueOnError)
	configPath := fs.String("config", "wheel.yaml", "config file, optional")
	spins := fs.Int("spins", 10000, "number of spins")
	workers := fs.Int("workers", runtime.GOMAXPROCS(0), "parallel workers")
	seed := fs.Uint64("seed", 0, "seed, 0 for random")
	bias := fs.Float64("bias", 0, "bias override in [-1, 1]")
	variant := fs.String("variant", "", "variant override: fixed or biased")
	policy := fs.String("policy", "", "policy override: post or pre")
	pretty := fs.Bool("pretty", false, "indent the report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "bias":
			cfg.Bias = *bias
		case "variant":
			cfg.Variant = *variant
		case "policy":
			cfg.Policy = *policy
		case "seed":
			cfg.Seed = *seed
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := sim.Run(ctx, sim.Options{
		Spins:   *spins,
		Workers: *workers,
		Variant: cfg.WheelVariant(),
		Bias:    cfg.Bias,
		Params:  cfg.SpinParams(),
		Seed:    cfg.Seed,
		Labels:  cfg.Labels(),
	})
	if err != nil {
		return fmt.Errorf("simulate: %w", err)
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(out)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(report)
}
