// Package assign matches source clips to the interval durations derived from
// a beat track.
package assign

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/beatcut/beatcut/internal/domain"
)

var ErrNoSuitableClip = errors.New("no suitable clip")

// Assign produces a 1:1 interval-to-clip mapping, greedily minimizing
// duration waste.
//
// Intervals are consumed in input order. For each interval the engine picks
// the unused clip with the smallest non-negative surplus
// (clip duration - interval duration). When no clip is long enough, the first
// unused clip in scan order is taken anyway; the renderer will extend it
// later. When the pool is exhausted the whole assignment fails.
//
// With randomize set, the candidate scan order is a single random permutation
// of the pool, drawn once per call. This only changes which clip wins exact
// surplus ties; the minimization objective is unchanged. With randomize off,
// the result is a pure function of (intervals, pool order).
func Assign(intervals []float64, pool []domain.MediaAsset, randomize bool, rng *rand.Rand) ([]domain.Assignment, error) {
	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}
	if randomize && rng != nil {
		rng.Shuffle(len(order), func(i, j int) {
			order[i], order[j] = order[j], order[i]
		})
	}

	used := make([]bool, len(pool))
	assignments := make([]domain.Assignment, 0, len(intervals))

	for i, needed := range intervals {
		best := -1
		bestSurplus := 0.0

		for _, idx := range order {
			if used[idx] {
				continue
			}
			surplus := pool[idx].DurationSeconds - needed
			if surplus < 0 {
				continue
			}
			if best == -1 || surplus < bestSurplus {
				best = idx
				bestSurplus = surplus
			}
		}

		if best == -1 {
			// Nothing long enough: fall back to the first unused clip, to be
			// extended by the renderer.
			for _, idx := range order {
				if !used[idx] {
					best = idx
					break
				}
			}
		}

		if best == -1 {
			return nil, fmt.Errorf("%w for interval %d (%.3fs)", ErrNoSuitableClip, i, needed)
		}

		used[best] = true
		assignments = append(assignments, domain.Assignment{
			IntervalIndex: i,
			AssetID:       pool[best].ID,
		})

		if pool[best].DurationSeconds < needed {
			slog.Debug("Assigned short clip, renderer will extend it",
				"interval", i,
				"needed", needed,
				"clipDuration", pool[best].DurationSeconds,
			)
		}
	}

	return assignments, nil
}
