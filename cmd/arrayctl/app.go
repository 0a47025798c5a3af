package main

import (
	"context"
	"log/slog"
	"sort"

	"github.com/urfave/cli/v3"

	"github.com/hupe1980/arrayrt"
)

var globalFlags = []cli.Flag{
	&cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "YAML file with type aliases, arrays and cache settings",
	},
	&cli.BoolFlag{
		Name:  "debug",
		Usage: "log at debug level",
	},
}

func newApp() *cli.Command {
	app := &cli.Command{
		Name:    "arrayctl",
		Usage:   "Array runtime control",
		Version: version,
		Flags:   globalFlags,
		Commands: []*cli.Command{
			resolveCommand(),
			makeCommand(),
			loadCommand(),
			cacheCommand(),
		},
	}
	for _, cmd := range app.Commands {
		sort.Slice(cmd.Flags, func(i, j int) bool {
			return cmd.Flags[i].Names()[0] < cmd.Flags[j].Names()[0]
		})
	}
	return app
}

// setup loads the config file, if any, and builds a runtime with its type
// aliases defined.
func setup(_ context.Context, cmd *cli.Command, opts ...arrayrt.Option) (*arrayrt.Runtime, *Config, error) {
	cfg := &Config{}
	if path := cmd.String("config"); path != "" {
		var err error
		if cfg, err = LoadConfig(path); err != nil {
			return nil, nil, err
		}
	}
	level := slog.LevelWarn
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	rt := arrayrt.New(append([]arrayrt.Option{arrayrt.WithLogLevel(level)}, opts...)...)
	for _, name := range cfg.typeNames() {
		if err := rt.DefineType(name, cfg.Types[name]); err != nil {
			return nil, nil, err
		}
	}
	return rt, cfg, nil
}
