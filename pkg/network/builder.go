package network

import (
	"github.com/matzehuels/hubmap/pkg/errors"
	"github.com/matzehuels/hubmap/pkg/geo"
)

const (
	// DefaultSecondaryProbability is the chance that two spokes are linked.
	DefaultSecondaryProbability = 0.3

	PrimaryWeight    = 2
	PrimaryOpacity   = 0.8
	SecondaryWeight  = 1
	SecondaryOpacity = 0.5

	// SecondaryAlpha is the alpha suffix applied to secondary edge colors.
	SecondaryAlpha uint8 = 0x50
)

// Options configures Build.
type Options struct {
	Hub                  int     // index of the hub point
	SecondaryProbability float64 // chance in [0, 1] that two spokes are linked
}

// DefaultOptions uses the first point as hub and DefaultSecondaryProbability.
func DefaultOptions() Options {
	return Options{SecondaryProbability: DefaultSecondaryProbability}
}

// Build returns the Primary edges from the hub to every other point, in point
// order, followed by the sampled Secondary edges in pair order. Fewer than two
// points yield no edges.
func Build(points []geo.Point, opts Options, rng RandomSource) ([]Edge, error) {
	p := opts.SecondaryProbability
	if err := errors.ValidateProbability(p); err != nil {
		return nil, err
	}
	if len(points) < 2 {
		return nil, nil
	}
	if opts.Hub < 0 || opts.Hub >= len(points) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "hub index %d out of range [0, %d)", opts.Hub, len(points))
	}
	if rng == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "random source is required")
	}

	hub := points[opts.Hub]
	edges := make([]Edge, 0, len(points)-1)
	for i, pt := range points {
		if i == opts.Hub {
			continue
		}
		edges = append(edges, Edge{
			From:    hub,
			To:      pt,
			Color:   hub.Color,
			Weight:  PrimaryWeight,
			Opacity: PrimaryOpacity,
			Kind:    Primary,
		})
	}

	for i := range points {
		if i == opts.Hub {
			continue
		}
		for j := i + 1; j < len(points); j++ {
			if j == opts.Hub {
				continue
			}
			if rng.Float64() >= p {
				continue
			}
			edges = append(edges, Edge{
				From:    points[i],
				To:      points[j],
				Color:   points[i].Color.WithAlpha(SecondaryAlpha),
				Weight:  SecondaryWeight,
				Opacity: SecondaryOpacity,
				Kind:    Secondary,
			})
		}
	}
	return edges, nil
}

// PairCount returns the number of candidate secondary pairs for n points.
func PairCount(n int) int {
	if n < 3 {
		return 0
	}
	return (n - 1) * (n - 2) / 2
}
