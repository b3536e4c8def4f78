// Package assign implements the factor-set / assignment primitives of the
// data model: ordered variable sizes, full and partial assignments, and the
// mixed-radix encoding between a full assignment and a flat index. Every
// solver package (factor, ve, dbn, experience, cpsqueue) builds on these
// types instead of re-deriving indexing arithmetic locally, the way the
// teacher centralizes vector arithmetic in utils/matutils.
package assign

import "sort"

// Sizes is an ordered sequence of positive variable domain sizes.
type Sizes []int

// Domain returns the number of full assignments over s, i.e. prod(s).
func (s Sizes) Domain() int {
	d := 1
	for _, sz := range s {
		d *= sz
	}
	return d
}

// Index converts a full assignment (one value per entry of s, in order)
// into a flat mixed-radix index. Key order is least-significant-first: s[0]
// varies fastest.
func (s Sizes) Index(full []int) int {
	idx := 0
	mult := 1
	for i, v := range full {
		idx += v * mult
		mult *= s[i]
	}
	return idx
}

// Decode converts a flat mixed-radix index back into a full assignment.
func (s Sizes) Decode(idx int) []int {
	full := make([]int, len(s))
	for i, sz := range s {
		full[i] = idx % sz
		idx /= sz
	}
	return full
}

// Select extracts the sizes at the given sorted, unique keys.
func (s Sizes) Select(keys []int) Sizes {
	out := make(Sizes, len(keys))
	for i, k := range keys {
		out[i] = s[k]
	}
	return out
}

// Partial is a partial assignment: Keys is a strictly-increasing ordered
// sequence of indices into a Sizes, Values is the matching sequence of
// values. Invariant: Keys is sorted and unique, and len(Values) ==
// len(Keys).
type Partial struct {
	Keys   []int
	Values []int
}

// NewPartial builds a Partial from (key, value) pairs, sorting by key. The
// caller must not pass duplicate keys.
func NewPartial(keys, values []int) Partial {
	n := len(keys)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })

	sortedKeys := make([]int, n)
	sortedValues := make([]int, n)
	for i, j := range idx {
		sortedKeys[i] = keys[j]
		sortedValues[i] = values[j]
	}
	return Partial{Keys: sortedKeys, Values: sortedValues}
}

// Index returns the flat mixed-radix index of p over sizes restricted to
// p.Keys (sizes is the full Sizes the keys index into).
func (p Partial) Index(sizes Sizes) int {
	idx := 0
	mult := 1
	for i, k := range p.Keys {
		idx += p.Values[i] * mult
		mult *= sizes[k]
	}
	return idx
}

// Domain returns the number of distinct partial assignments over p.Keys
// given the full Sizes.
func (p Partial) Domain(sizes Sizes) int {
	return sizes.Select(p.Keys).Domain()
}

// Matches reports whether the full assignment full agrees with p on every
// key p constrains.
func (p Partial) Matches(full []int) bool {
	for i, k := range p.Keys {
		if full[k] != p.Values[i] {
			return false
		}
	}
	return true
}

// Project restricts a full assignment down to the values at keys (keys must
// be sorted and unique).
func Project(full []int, keys []int) Partial {
	values := make([]int, len(keys))
	for i, k := range keys {
		values[i] = full[k]
	}
	return Partial{Keys: append([]int(nil), keys...), Values: values}
}

// Union returns the sorted union of two strictly-increasing key slices.
func Union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// Merge concatenates two Partials whose key sets are disjoint, returning
// the combined Partial in sorted-key order. ok is false if the key sets
// overlap.
func Merge(a, b Partial) (Partial, bool) {
	keys := make([]int, 0, len(a.Keys)+len(b.Keys))
	values := make([]int, 0, len(a.Keys)+len(b.Keys))
	i, j := 0, 0
	for i < len(a.Keys) && j < len(b.Keys) {
		switch {
		case a.Keys[i] < b.Keys[j]:
			keys = append(keys, a.Keys[i])
			values = append(values, a.Values[i])
			i++
		case a.Keys[i] > b.Keys[j]:
			keys = append(keys, b.Keys[j])
			values = append(values, b.Values[j])
			j++
		default:
			return Partial{}, false
		}
	}
	for ; i < len(a.Keys); i++ {
		keys = append(keys, a.Keys[i])
		values = append(values, a.Values[i])
	}
	for ; j < len(b.Keys); j++ {
		keys = append(keys, b.Keys[j])
		values = append(values, b.Values[j])
	}
	return Partial{Keys: keys, Values: values}, true
}

// Full materializes a full assignment of length n from a Partial, filling
// unconstrained entries with fill.
func (p Partial) Full(n int, fill int) []int {
	full := make([]int, n)
	for i := range full {
		full[i] = fill
	}
	for i, k := range p.Keys {
		full[k] = p.Values[i]
	}
	return full
}
