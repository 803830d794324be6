package decoration

import (
	"context"
	"slices"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

type diffOptions struct {
	equal Equality
}

// DiffOption changes Diff behavior.
type DiffOption func(*diffOptions)

// WithEquality sets content predicate used to tell updates from moves.
func WithEquality(eq Equality) DiffOption {
	return func(o *diffOptions) {
		if eq != nil {
			o.equal = eq
		}
	}
}

// WithExtras makes extras and element markup part of the content
// comparison.
func WithExtras() DiffOption {
	return WithEquality(FullEqual)
}

// Diff lists changes transforming source into target, bucketed by resource href.
//
// Decorations are the same item when ids match and both are anchored to the
// same resource; an id which changed resource is removed from the old one and
// added to the new one. Every bucket, replayed in order against the source
// entries of its resource, yields the target entries of that resource.
// Identical lists produce an empty map.
func Diff(source, target []Decoration, opts ...DiffOption) Changes {
	o := diffOptions{equal: ContentEqual}
	for _, opt := range opts {
		opt(&o)
	}

	olds, news := ByHref(source), ByHref(target)
	changes := make(Changes)
	for _, href := range hrefsOf(olds, news) {
		if list := diffBucket(olds[href], news[href], o.equal); len(list) > 0 {
			changes[href] = list
		}
	}
	return changes
}

// ByHref splits list by resource href keeping relative order.
func ByHref(list []Decoration) map[string][]Decoration {
	res := make(map[string][]Decoration)
	for _, d := range list {
		res[d.Href()] = append(res[d.Href()], d)
	}
	return res
}

func hrefsOf(lists ...map[string][]Decoration) []string {
	var keys []string
	seen := make(map[string]bool)
	for _, m := range lists {
		for href := range m {
			if !seen[href] {
				seen[href] = true
				keys = append(keys, href)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// diffBucket aligns two lists of the same resource. Indices of produced
// changes refer to the list as it stands when the change is applied.
//
// Removals come first in position order. Then target is walked in order:
// new entries are inserted right after their predecessor, matched entries
// outside of the longest common subsequence are repositioned the same way
// and reported as moves (or updates when content changed as well), entries
// of the subsequence stay where they are and are reported only when their
// content changed.
func diffBucket(source, target []Decoration, equal Equality) []Change {
	// source index -> target index for matched items, -1 otherwise
	oldToNew := make([]int, len(source))
	newToOld := make([]int, len(target))
	for i := range newToOld {
		newToOld[i] = -1
	}

	newPos := make(map[string]int, len(target))
	for j, d := range target {
		if _, dup := newPos[d.ID]; !dup {
			newPos[d.ID] = j
		}
	}
	for i, d := range source {
		oldToNew[i] = -1
		j, ok := newPos[d.ID]
		if !ok || newToOld[j] >= 0 {
			continue
		}
		oldToNew[i], newToOld[j] = j, i
	}

	inLCS := stableMatches(newToOld)

	var res []Change

	// current list state, entries are target indices
	cur := make([]int, 0, max(len(source), len(target)))
	for i, d := range source {
		if oldToNew[i] < 0 {
			res = append(res, Removed(d.ID, len(cur)))
			continue
		}
		cur = append(cur, oldToNew[i])
	}

	for j, d := range target {
		after := 0
		if j > 0 {
			after = slices.Index(cur, j-1) + 1
		}
		i := newToOld[j]
		switch {
		case i < 0:
			cur = slices.Insert(cur, after, j)
			res = append(res, Added(d, after))
		case inLCS[j]:
			if !equal(source[i], d) {
				at := slices.Index(cur, j)
				res = append(res, Updated(d, at, at))
			}
		default:
			from := slices.Index(cur, j)
			cur = slices.Delete(cur, from, from+1)
			to := after
			if from < after {
				to--
			}
			cur = slices.Insert(cur, to, j)
			switch {
			case !equal(source[i], d):
				res = append(res, Updated(d, from, to))
			case from != to:
				res = append(res, Moved(d.ID, from, to))
			}
		}
	}
	return res
}

// stableMatches marks matched new positions which belong to the longest
// subsequence keeping old relative order. With unique ids this is the
// longest increasing subsequence of old indices taken in new order.
func stableMatches(newToOld []int) []bool {
	var (
		tails []int // new positions ending increasing runs of each length
		prev  = make([]int, len(newToOld))
	)
	for j, i := range newToOld {
		prev[j] = -1
		if i < 0 {
			continue
		}
		k := sort.Search(len(tails), func(n int) bool {
			return newToOld[tails[n]] >= i
		})
		if k > 0 {
			prev[j] = tails[k-1]
		}
		if k == len(tails) {
			tails = append(tails, j)
		} else {
			tails[k] = j
		}
	}

	res := make([]bool, len(newToOld))
	if len(tails) == 0 {
		return res
	}
	for j := tails[len(tails)-1]; j >= 0; j = prev[j] {
		res[j] = true
	}
	return res
}

// Pair holds previous and current decoration lists of a group.
type Pair struct {
	Old []Decoration
	New []Decoration
}

// DiffGroups computes changes for several independent groups concurrently.
// Diff keeps no shared state so groups need no coordination.
func DiffGroups(ctx context.Context, pairs map[string]Pair, opts ...DiffOption) (map[string]Changes, error) {
	g, ctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	res := make(map[string]Changes, len(pairs))
	for name, p := range pairs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			changes := Diff(p.Old, p.New, opts...)
			mu.Lock()
			res[name] = changes
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}
