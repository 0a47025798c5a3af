package arrayrt_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/arrayrt"
	"github.com/hupe1980/arrayrt/array"
	"github.com/hupe1980/arrayrt/hashcache"
)

func ExampleRuntime_MakeArray() {
	rt := arrayrt.New()

	a, err := rt.MakeArray([]int{3, 4}, "(integer 0 200)")
	if err != nil {
		panic(err)
	}
	i, _ := a.RowMajorIndex(2, 3)
	_ = a.SetAref(7, 2, 3)
	v, _ := a.RowMajorAref(i)

	fmt.Println(a.ElementTypeSpecifier(), a.TotalSize(), i, v)
	// Output: (unsigned-byte 8) 12 11 7
}

func ExampleRuntime_Adjust() {
	rt := arrayrt.New()
	ctx := context.Background()

	v, _ := rt.MakeArray([]int{5}, "fixnum",
		array.Adjustable(), array.InitialContents([]int{1, 2, 3, 4, 5}))
	w, _ := rt.MakeArray([]int{2}, "fixnum", array.DisplacedTo(v, 3))

	res, _ := rt.Adjust(ctx, v, []int{3})
	contents, _ := res.Contents()

	fmt.Println(res == v, contents, w.IsInvalid())
	// Output: true [1 2 3] true
}

func ExampleRuntime_DefineCache() {
	rt := arrayrt.New()

	c, _ := rt.DefineCache(hashcache.Config{
		Name:     "upgraded-element-type",
		Args:     []hashcache.Arg{{Name: "specifier", Equal: hashcache.Eq}},
		HashBits: 6,
		Values:   1,
		Hash:     hashcache.HashComparable,
	})
	upgrade := hashcache.Memoize1(c, rt.UpgradedElementType)

	for range 3 {
		_, _ = upgrade("(integer -5 5)")
	}
	spec, _ := upgrade("(integer -5 5)")

	s := c.Stats()
	fmt.Println(spec, s.Hits, s.Misses)
	// Output: (signed-byte 8) 3 1
}
