package roadgraph

import (
	"container/heap"
	"context"
	"fmt"
	"math"

	"github.com/travigo/lookahead/pkg/geospatial"
)

const cancellationCheckInterval = 1024

type Path struct {
	TotalDistance             float64            `json:"total_distance"`
	TotalTime                 float64            `json:"total_time"`
	NodeOsmIDs                []int64            `json:"node_osm_ids"`
	Points                    []geospatial.Point `json:"points"`
	Edges                     []Edge             `json:"edges"`
	DistancesFromStartingNode []float64          `json:"distances_from_starting_node"`
	TimesFromStartingNode     []float64          `json:"times_from_starting_node"`
	DistancesFromPreviousNode []float64          `json:"distances_from_previous_node"`
	TimesFromPreviousNode     []float64          `json:"times_from_previous_node"`
}

type nodeState struct {
	distance float64
	time     float64

	previous int64
	edge     Edge
	isStart  bool
}

// ShortestPath finds the least-time path between two nodes with A*.
// A node is only re-opened when a strictly lower time to reach it is found. An equally fast but
// shorter way in replaces its parent without re-opening it.
func (g *Graph) ShortestPath(ctx context.Context, start int64, end int64) (*Path, error) {
	if _, exists := g.Point(start); !exists {
		return nil, fmt.Errorf("%w: unknown starting node %d", ErrNoPath, start)
	}
	endPoint, exists := g.Point(end)
	if !exists {
		return nil, fmt.Errorf("%w: unknown ending node %d", ErrNoPath, end)
	}

	states := map[int64]*nodeState{
		start: {isStart: true},
	}
	expandedAt := map[int64]float64{}

	queue := &priorityQueue{}
	heap.Init(queue)
	heap.Push(queue, &queueItem{osmID: start})

	iterations := 0
	for queue.Len() > 0 {
		if iterations%cancellationCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
			}
		}
		iterations++

		item := heap.Pop(queue).(*queueItem)
		state := states[item.osmID]

		if item.time > state.time {
			continue
		}
		if previousTime, expanded := expandedAt[item.osmID]; expanded && item.time >= previousTime {
			continue
		}
		expandedAt[item.osmID] = item.time

		if item.osmID == end {
			return g.buildPath(end, states)
		}

		for _, edge := range g.EdgesFrom(item.osmID) {
			edgeTime, err := edge.TravelTime()
			if err != nil {
				return nil, err
			}
			if math.IsInf(edgeTime, 1) {
				continue
			}

			neighbour := edge.EndingNode.OsmID
			time := state.time + edgeTime
			distance := state.distance + edge.Distance()

			if existing, seen := states[neighbour]; seen && time >= existing.time {
				if time == existing.time && distance < existing.distance && !existing.isStart {
					existing.distance = distance
					existing.previous = item.osmID
					existing.edge = edge
				}
				continue
			}

			states[neighbour] = &nodeState{
				distance: distance,
				time:     time,
				previous: item.osmID,
				edge:     edge,
			}

			remainingDistance := geospatial.Distance(edge.EndingNode.Point, endPoint)
			heap.Push(queue, &queueItem{
				osmID:            neighbour,
				time:             time,
				priority:         time + HeuristicTime(remainingDistance, g.StandardSpeed),
				distancePriority: distance + remainingDistance,
			})
		}
	}

	return nil, fmt.Errorf("%w: %d to %d", ErrNoPath, start, end)
}

func (g *Graph) buildPath(end int64, states map[int64]*nodeState) (*Path, error) {
	var reversedNodes []int64
	current := end
	for {
		reversedNodes = append(reversedNodes, current)
		state := states[current]
		if state.isStart {
			break
		}
		if len(reversedNodes) > len(states) {
			return nil, fmt.Errorf("parent links of node %d form a cycle", end)
		}
		current = state.previous
	}

	path := &Path{}
	for i := len(reversedNodes) - 1; i >= 0; i-- {
		osmID := reversedNodes[i]
		point, _ := g.Point(osmID)

		path.NodeOsmIDs = append(path.NodeOsmIDs, osmID)
		path.Points = append(path.Points, point)

		if i == len(reversedNodes)-1 {
			path.DistancesFromPreviousNode = append(path.DistancesFromPreviousNode, 0)
			path.TimesFromPreviousNode = append(path.TimesFromPreviousNode, 0)
			path.DistancesFromStartingNode = append(path.DistancesFromStartingNode, 0)
			path.TimesFromStartingNode = append(path.TimesFromStartingNode, 0)
			continue
		}

		edge := states[osmID].edge
		distance := edge.Distance()
		time, err := edge.TravelTime()
		if err != nil {
			return nil, err
		}

		path.TotalDistance += distance
		path.TotalTime += time

		path.Edges = append(path.Edges, edge)
		path.DistancesFromPreviousNode = append(path.DistancesFromPreviousNode, distance)
		path.TimesFromPreviousNode = append(path.TimesFromPreviousNode, time)
		path.DistancesFromStartingNode = append(path.DistancesFromStartingNode, path.TotalDistance)
		path.TimesFromStartingNode = append(path.TimesFromStartingNode, path.TotalTime)
	}

	return path, nil
}

type queueItem struct {
	osmID            int64
	time             float64
	priority         float64
	distancePriority float64
}

type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }
func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].priority == pq[j].priority {
		return pq[i].distancePriority < pq[j].distancePriority
	}
	return pq[i].priority < pq[j].priority
}
func (pq priorityQueue) Swap(i, j int) { pq[i], pq[j] = pq[j], pq[i] }

func (pq *priorityQueue) Push(x interface{}) {
	*pq = append(*pq, x.(*queueItem))
}

func (pq *priorityQueue) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[0 : n-1]
	return item
}
