package roadgraph

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/slices"
)

const DefaultMaximumCandidatePaths = 8

// Bounds the breadth-first search on dense graphs where the path budget is never reached
const maximumCandidateExpansions = 250000

// CandidatePaths enumerates up to limit distinct cycle-free node sequences from start to end,
// shortest hop count first.
func (g *Graph) CandidatePaths(ctx context.Context, start int64, end int64, limit int) ([][]int64, error) {
	if limit <= 0 {
		limit = DefaultMaximumCandidatePaths
	}
	if _, exists := g.Point(start); !exists {
		return nil, fmt.Errorf("%w: unknown starting node %d", ErrNoPath, start)
	}

	var paths [][]int64
	queue := [][]int64{{start}}
	expansions := 0

	for len(queue) > 0 && len(paths) < limit && expansions < maximumCandidateExpansions {
		if expansions%cancellationCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
			}
		}

		partialPath := queue[0]
		queue = queue[1:]

		last := partialPath[len(partialPath)-1]
		if last == end {
			paths = append(paths, partialPath)
			continue
		}

		expansions++

		var neighbours []int64
		for _, edge := range g.EdgesFrom(last) {
			neighbour := edge.EndingNode.OsmID
			if slices.Contains(partialPath, neighbour) || slices.Contains(neighbours, neighbour) {
				continue
			}
			neighbours = append(neighbours, neighbour)

			extendedPath := make([]int64, len(partialPath), len(partialPath)+1)
			copy(extendedPath, partialPath)
			queue = append(queue, append(extendedPath, neighbour))
		}
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %d to %d", ErrNoPath, start, end)
	}

	return paths, nil
}

// CandidateEdgePaths converts every candidate node path into the sequence of edges it traverses.
// Where parallel edges join two nodes the fastest one is used.
func (g *Graph) CandidateEdgePaths(ctx context.Context, start int64, end int64, limit int) ([][]Edge, error) {
	nodePaths, err := g.CandidatePaths(ctx, start, end, limit)
	if err != nil {
		return nil, err
	}

	edgePaths := make([][]Edge, 0, len(nodePaths))
	for _, nodePath := range nodePaths {
		edges := make([]Edge, 0, len(nodePath)-1)

		for i := 1; i < len(nodePath); i++ {
			edge, err := g.fastestEdge(nodePath[i-1], nodePath[i])
			if err != nil {
				return nil, err
			}
			edges = append(edges, edge)
		}

		edgePaths = append(edgePaths, edges)
	}

	return edgePaths, nil
}

func (g *Graph) fastestEdge(from int64, to int64) (Edge, error) {
	var fastest Edge
	fastestTime := math.Inf(1)
	found := false

	for _, edge := range g.EdgesFrom(from) {
		if edge.EndingNode.OsmID != to {
			continue
		}

		time, err := edge.TravelTime()
		if err != nil {
			return Edge{}, err
		}

		if !found || time < fastestTime {
			fastest = edge
			fastestTime = time
			found = true
		}
	}

	if !found {
		return Edge{}, fmt.Errorf("%w: no edge from %d to %d", ErrNoPath, from, to)
	}

	return fastest, nil
}
