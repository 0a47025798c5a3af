package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Resolve element type specifiers to their storage widetag",
		ArgsUsage: "SPECIFIER...",
		Action:    resolveAction,
	}
}

func resolveAction(ctx context.Context, cmd *cli.Command) error {
	rt, _, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() == 0 {
		return fmt.Errorf("resolve: no specifier given")
	}
	for _, spec := range cmd.Args().Slice() {
		w, err := rt.Resolve(spec)
		if err != nil {
			return err
		}
		info := w.Info()
		fmt.Fprintf(cmd.Root().Writer, "%s\t%s\t%s\t%d bits\n", spec, info.Name, info.Specifier, info.Bits)
	}
	return nil
}
