package main

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/hupe1980/arrayrt/dump"
)

func loadCommand() *cli.Command {
	return &cli.Command{
		Name:      "load",
		Usage:     "Load an array dump and print its contents",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "print the array as a JSON document",
			},
		},
		Action: loadAction,
	}
}

type arrayDocument struct {
	ElementType string `json:"element_type"`
	Dimensions  []int  `json:"dimensions"`
	Adjustable  bool   `json:"adjustable"`
	FillPointer *int   `json:"fill_pointer,omitempty"`
	Contents    any    `json:"contents"`
}

func loadAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("load: expected one file")
	}
	f, err := os.Open(cmd.Args().First())
	if err != nil {
		return err
	}
	defer f.Close()

	a, err := dump.Read(bufio.NewReader(f))
	if err != nil {
		return err
	}
	contents, err := a.Nested()
	if err != nil {
		return err
	}
	doc := arrayDocument{
		ElementType: a.ElementTypeSpecifier(),
		Dimensions:  a.Dimensions(),
		Adjustable:  a.IsAdjustable(),
		Contents:    contents,
	}
	if fp, err := a.FillPointer(); err == nil {
		doc.FillPointer = &fp
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	fmt.Fprintf(out, "%s %v\n%v\n", doc.ElementType, doc.Dimensions, contents)
	return nil
}
