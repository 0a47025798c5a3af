package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hupe1980/arrayrt"
	"github.com/hupe1980/arrayrt/array"
	"github.com/hupe1980/arrayrt/hashcache"
)

func main() {
	ctx := context.Background()
	size := 500000
	keys := 5000

	mc := &arrayrt.BasicMetricsCollector{}
	rt := arrayrt.New(arrayrt.WithMetricsCollector(mc))

	v, err := rt.MakeArray([]int{16}, "(unsigned-byte 16)", array.Adjustable(), array.FillPointer())
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("--- Push ---")
	fmt.Println("Element type:", v.ElementTypeSpecifier())
	fmt.Println("Size:", size)

	start := time.Now()

	for i := range size {
		if _, err := v.VectorPushExtend(i&0xffff, 0); err != nil {
			log.Fatal(err)
		}
	}

	end := time.Since(start)

	fmt.Printf("Capacity: %d, Length: %d\n", v.TotalSize(), v.Length())
	fmt.Printf("Seconds: %.4f\n\n", end.Seconds())

	fmt.Println("--- Shrink ---")

	window, err := rt.MakeArray([]int{1000}, "(unsigned-byte 16)", array.DisplacedTo(v, size-1000))
	if err != nil {
		log.Fatal(err)
	}

	start = time.Now()

	if _, err := rt.Adjust(ctx, v, []int{size / 2}, array.FillPointerAt(size/2)); err != nil {
		log.Fatal(err)
	}

	end = time.Since(start)

	fmt.Println("Window invalid:", window.IsInvalid())
	fmt.Printf("Seconds: %.8f\n\n", end.Seconds())

	fmt.Println("--- Memo ---")

	c, err := rt.DefineCache(hashcache.Config{
		Name:     "upgraded-element-type",
		Args:     []hashcache.Arg{{Name: "specifier", Equal: hashcache.Eq}},
		HashBits: 10,
		Values:   1,
		Hash:     hashcache.HashComparable,
	})
	if err != nil {
		log.Fatal(err)
	}
	upgrade := hashcache.Memoize1(c, rt.UpgradedElementType)

	start = time.Now()

	for round := range 3 {
		for i := range keys {
			if _, err := upgrade(fmt.Sprintf("(integer %d %d)", -round, i)); err != nil {
				log.Fatal(err)
			}
		}
	}

	end = time.Since(start)

	printStats(mc.GetStats())
	fmt.Printf("Seconds: %.4f\n", end.Seconds())
}

func printStats(s arrayrt.BasicMetricsStats) {
	fmt.Printf("Adjusts: %d, Invalidations: %d\n", s.AdjustCount, s.Invalidations)
	for name, c := range s.Caches {
		fmt.Printf("Cache: %s, Hits: %d, Misses: %d, Evictions: %d\n", name, c.Hits, c.Misses, c.Evictions)
	}
}
