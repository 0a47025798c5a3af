package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hupe1980/arrayrt/dump"
	"github.com/hupe1980/arrayrt/widetag"
)

func makeCommand() *cli.Command {
	return &cli.Command{
		Name:      "make",
		Usage:     "Build an array described in the config file and optionally dump it",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "write the array dump to `FILE`",
			},
			&cli.StringFlag{
				Name:  "compression",
				Value: "zstd",
				Usage: "block compression: none, lz4 or zstd",
			},
		},
		Action: makeAction,
	}
}

func makeAction(ctx context.Context, cmd *cli.Command) error {
	rt, cfg, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("make: expected one array name")
	}
	spec, err := cfg.Array(cmd.Args().First())
	if err != nil {
		return err
	}
	a, err := rt.MakeArray(spec.Dimensions, spec.ElementType, spec.Options()...)
	if err != nil {
		return err
	}

	elem := a.ElementType()
	size := uint64(widetag.AllocationWords(elem, a.TotalSize())) * 8
	out := cmd.Root().Writer
	fmt.Fprintf(out, "%s: %s, dimensions %v, %s elements, %s storage\n",
		spec.Name, elem.Info().Specifier, a.Dimensions(),
		humanize.Comma(int64(a.TotalSize())), humanize.Bytes(size))

	path := cmd.String("out")
	if path == "" {
		return nil
	}
	c, err := dump.ParseCompression(cmd.String("compression"))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	n, err := dump.Write(w, a, dump.WithCompression(c))
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s (%s, %s)\n", path, humanize.Bytes(uint64(n)), c)
	return nil
}
