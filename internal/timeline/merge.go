// Package timeline aligns independently dated streams with last-known-value
// carry-forward.
//
// Streams are given as ascending key sequences. Merge walks all of them in a
// single pass and reports, for every key in their union, which entry of each
// stream is current at that key. Callers index back into their own typed
// slices, so the primitive works for any number of heterogeneous streams.
package timeline

import (
	"cmp"
	"errors"
	"fmt"
)

var (
	ErrUnordered      = errors.New("stream keys are not ascending")
	ErrDuplicateLabel = errors.New("duplicate stream label")
)

// Stream is a labeled ascending key sequence.
type Stream[K cmp.Ordered] struct {
	Label string
	Keys  []K
}

// Frame is the carried-forward state of every stream at one event key.
// Pos[i] is the index into stream i of its current entry, or -1.
type Frame[K cmp.Ordered] struct {
	At  K
	Pos []int
}

// Complete reports whether every stream has produced a value.
func (f Frame[K]) Complete() bool {
	for _, p := range f.Pos {
		if p < 0 {
			return false
		}
	}
	return true
}

// Keys extracts a key sequence from items.
func Keys[T any, K cmp.Ordered](items []T, key func(T) K) []K {
	out := make([]K, len(items))
	for i, it := range items {
		out[i] = key(it)
	}
	return out
}

// Merge returns one frame per distinct key across streams, ascending.
// Repeated keys within a stream resolve to the last entry.
func Merge[K cmp.Ordered](streams ...Stream[K]) ([]Frame[K], error) {
	seen := make(map[string]struct{}, len(streams))
	total := 0
	for _, s := range streams {
		if _, dup := seen[s.Label]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateLabel, s.Label)
		}
		seen[s.Label] = struct{}{}
		for i := 1; i < len(s.Keys); i++ {
			if cmp.Less(s.Keys[i], s.Keys[i-1]) {
				return nil, fmt.Errorf("%w: %q at index %d", ErrUnordered, s.Label, i)
			}
		}
		total += len(s.Keys)
	}

	next := make([]int, len(streams))
	current := make([]int, len(streams))
	for i := range current {
		current[i] = -1
	}

	frames := make([]Frame[K], 0, total)
	for {
		at, ok := minHead(streams, next)
		if !ok {
			break
		}
		for i, s := range streams {
			for next[i] < len(s.Keys) && s.Keys[next[i]] == at {
				current[i] = next[i]
				next[i]++
			}
		}
		pos := make([]int, len(current))
		copy(pos, current)
		frames = append(frames, Frame[K]{At: at, Pos: pos})
	}
	return frames, nil
}

// Complete filters frames down to those where every stream has a value.
func Complete[K cmp.Ordered](frames []Frame[K]) []Frame[K] {
	out := make([]Frame[K], 0, len(frames))
	for _, f := range frames {
		if f.Complete() {
			out = append(out, f)
		}
	}
	return out
}

func minHead[K cmp.Ordered](streams []Stream[K], next []int) (K, bool) {
	var (
		best  K
		found bool
	)
	for i, s := range streams {
		if next[i] >= len(s.Keys) {
			continue
		}
		k := s.Keys[next[i]]
		if !found || cmp.Less(k, best) {
			best, found = k, true
		}
	}
	return best, found
}
