// Package hashcache provides fixed-size memo tables for expensive pure
// queries (type relations, expansions).
//
// A Cache maps N arguments to M results. Its capacity is 1<<HashBits lines
// and never changes. A lookup hashes the arguments once and probes exactly
// two slots, taken from the low HashBits bits of the hash and the next
// HashBits bits; there is no chaining. When both slots are occupied, Enter
// evicts one of them at random.
//
//	c, _ := hashcache.Define(hashcache.Config{
//	    Name:     "subtypep",
//	    Args:     []hashcache.Arg{{Name: "t1", Equal: hashcache.Eq}, {Name: "t2", Equal: hashcache.Eq}},
//	    HashBits: 10,
//	    Values:   2,
//	    Hash:     hashcache.HashComparable,
//	})
//	subtypep := hashcache.Memoize(c, computeSubtypep)
//	res, err := subtypep.Call("fixnum", "integer")
//
// # Concurrency
//
// Lines are immutable and published with one atomic pointer store, so
// readers never observe a partial line. Clear replaces the slot vector as a
// whole instead of emptying slots in place.
package hashcache
