package projectconfig

import (
	"encoding/json"
	"math"
	"slices"
)

const maxRank = 6

// HeaderDepth selects the heading ranks collected into a page outline. It is read
// either from a number N, meaning ranks 1 through N, or from an array listing the
// ranks explicitly.
type HeaderDepth struct {
	max   int
	ranks []int
	list  bool
}

// MaxDepth returns a depth including ranks 1 through n, clamped to 0..6.
func MaxDepth(n int) HeaderDepth {
	return HeaderDepth{max: min(max(n, 0), maxRank)}
}

// RankList returns a depth including exactly the given ranks. Ranks outside
// 1..6 and duplicates are dropped; the first occurrence order is kept.
func RankList(ranks ...int) HeaderDepth {
	out := make([]int, 0, len(ranks))
	for _, r := range ranks {
		if r < 1 || r > maxRank || slices.Contains(out, r) {
			continue
		}
		out = append(out, r)
	}
	return HeaderDepth{ranks: out, list: true}
}

// Ranks returns the included ranks.
func (d HeaderDepth) Ranks() []int {
	if d.list {
		return slices.Clone(d.ranks)
	}
	out := make([]int, 0, d.max)
	for r := 1; r <= d.max; r++ {
		out = append(out, r)
	}
	return out
}

// Includes reports whether headings of the given rank are collected.
func (d HeaderDepth) Includes(rank int) bool {
	if d.list {
		return slices.Contains(d.ranks, rank)
	}
	return rank >= 1 && rank <= d.max
}

// MarshalJSON writes the depth back in the form it was read from.
func (d HeaderDepth) MarshalJSON() ([]byte, error) {
	if d.list {
		return json.Marshal(d.Ranks())
	}
	return json.Marshal(d.max)
}

// UnmarshalJSON accepts a number or an array of numbers.
func (d *HeaderDepth) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := asHeaderDepth(raw); ok {
		*d = v
	}
	return nil
}

func asHeaderDepth(v any) (HeaderDepth, bool) {
	switch t := v.(type) {
	case float64:
		n, ok := wholeNumber(t)
		if !ok {
			return HeaderDepth{}, false
		}
		return MaxDepth(n), true
	case []any:
		ranks := make([]int, 0, len(t))
		for _, e := range t {
			f, ok := e.(float64)
			if !ok {
				continue
			}
			if n, ok := wholeNumber(f); ok {
				ranks = append(ranks, n)
			}
		}
		return RankList(ranks...), true
	default:
		return HeaderDepth{}, false
	}
}

func wholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
