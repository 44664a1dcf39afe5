// Package textMatch finds word sequences shared between two texts.
package textMatch

import (
	"sort"
	"strings"

	"toolbox/infra/errorx"
	"toolbox/infra/errorx/errCode"
	"toolbox/infra/trace"
)

// SharedRuns returns up to n runs of consecutive words (at least two words long)
// from lookup that also appear consecutively in ref, longest first.
//
// Matching is greedy: each lookup word starts at most one run, anchored at its
// first occurrence in ref, and words already inside a run never start another.
func SharedRuns(ref, lookup string, n int, tr *trace.Log) ([]string, error) {
	if n < 1 {
		return nil, errorx.Newf(errCode.INVALID_VALUE, "n must be >= 1, got %d", n)
	}
	refWords := strings.Fields(ref)
	lookupWords := strings.Fields(lookup)

	// 词 -> 在 ref 中的所有位置
	positions := make(map[string][]int, len(refWords))
	for i, w := range refWords {
		positions[w] = append(positions[w], i)
	}

	passed := make([]bool, len(lookupWords))
	var runs [][]string
	for li, w := range lookupWords {
		if passed[li] {
			continue
		}
		pos, ok := positions[w]
		if !ok {
			continue
		}
		ri := pos[0]
		passed[li] = true
		k := 1
		for li+k < len(lookupWords) && ri+k < len(refWords) && lookupWords[li+k] == refWords[ri+k] {
			passed[li+k] = true
			k++
		}
		if k > 1 {
			runs = append(runs, lookupWords[li:li+k])
		}
	}

	sort.SliceStable(runs, func(i, j int) bool { return len(runs[i]) > len(runs[j]) })
	if len(runs) > n {
		runs = runs[:n]
	}
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = strings.Join(r, " ")
	}
	tr.Add("shared_runs", "ref_words", len(refWords), "lookup_words", len(lookupWords), "runs", len(out))
	return out, nil
}
