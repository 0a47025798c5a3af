package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/hupe1980/arrayrt"
	"github.com/hupe1980/arrayrt/hashcache"
)

func cacheCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Memoize specifier upgrading through a hash cache and report its statistics",
		Flags: []cli.Flag{
			&cli.UintFlag{
				Name:  "bits",
				Usage: "cache hash bits (capacity is 2^bits)",
			},
			&cli.IntFlag{
				Name:  "keys",
				Usage: "number of distinct specifiers to look up",
			},
			&cli.IntFlag{
				Name:  "rounds",
				Value: 2,
				Usage: "passes over the key set",
			},
		},
		Action: cacheAction,
	}
}

func cacheAction(ctx context.Context, cmd *cli.Command) error {
	metrics := &arrayrt.BasicMetricsCollector{}
	rt, cfg, err := setup(ctx, cmd, arrayrt.WithMetricsCollector(metrics))
	if err != nil {
		return err
	}

	bits := cfg.Cache.HashBits
	if cmd.IsSet("bits") || bits == 0 {
		bits = uint(cmd.Uint("bits"))
	}
	if bits == 0 {
		bits = 8
	}
	keys := cfg.Cache.Keys
	if cmd.IsSet("keys") || keys == 0 {
		keys = int(cmd.Int("keys"))
	}
	if keys == 0 {
		keys = 64
	}

	c, err := rt.DefineCache(hashcache.Config{
		Name:     "upgraded-element-type",
		Args:     []hashcache.Arg{{Name: "specifier", Equal: hashcache.Eq}},
		HashBits: bits,
		Values:   1,
		Hash:     hashcache.HashComparable,
	})
	if err != nil {
		return err
	}
	upgrade := hashcache.Memoize1(c, rt.UpgradedElementType)

	for range cmd.Int("rounds") {
		for i := range keys {
			spec := fmt.Sprintf("(integer 0 %d)", i)
			if _, err := upgrade(spec); err != nil {
				return err
			}
		}
	}

	s := c.Stats()
	m := metrics.GetStats()
	out := cmd.Root().Writer
	fmt.Fprintf(out, "cache %s: %s/%s lines occupied\n",
		s.Name, humanize.Comma(int64(s.Occupied)), humanize.Comma(int64(s.Capacity)))
	fmt.Fprintf(out, "hits %s, misses %s, inserts %s, evictions %s\n",
		humanize.Comma(s.Hits), humanize.Comma(s.Misses), humanize.Comma(s.Inserts), humanize.Comma(s.Evictions))
	fmt.Fprintf(out, "collector: %s lookups, %s evictions\n",
		humanize.Comma(m.CacheHits+m.CacheMisses), humanize.Comma(m.CacheEvictions))
	return nil
}
