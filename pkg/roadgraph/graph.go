package roadgraph

import (
	"github.com/travigo/lookahead/pkg/geospatial"
)

// Graph is an immutable snapshot of the road network. It is never mutated after construction,
// a refresh builds a new one with WithEdges.
type Graph struct {
	edgesByStartingNode map[int64][]Edge
	points              map[int64]geospatial.Point
	busStops            map[string]BusStop

	StandardSpeed float64
}

func NewGraph(edges []Edge, busStops []BusStop) *Graph {
	graph := &Graph{
		busStops:      make(map[string]BusStop, len(busStops)),
		StandardSpeed: DefaultStandardSpeed,
	}

	for _, busStop := range busStops {
		graph.busStops[busStop.Name] = busStop
	}

	graph.indexEdges(edges)

	return graph
}

// WithEdges returns a new snapshot over the given edges that shares the bus stop index
func (g *Graph) WithEdges(edges []Edge) *Graph {
	graph := &Graph{
		busStops:      g.busStops,
		StandardSpeed: g.StandardSpeed,
	}

	graph.indexEdges(edges)

	return graph
}

func (g *Graph) indexEdges(edges []Edge) {
	g.edgesByStartingNode = make(map[int64][]Edge)
	g.points = make(map[int64]geospatial.Point)

	for _, edge := range edges {
		g.edgesByStartingNode[edge.StartingNode.OsmID] = append(g.edgesByStartingNode[edge.StartingNode.OsmID], edge)
		g.points[edge.StartingNode.OsmID] = edge.StartingNode.Point
		g.points[edge.EndingNode.OsmID] = edge.EndingNode.Point
	}

	for _, busStop := range g.busStops {
		if _, exists := g.points[busStop.OsmID]; !exists {
			g.points[busStop.OsmID] = busStop.Point
		}
	}
}

func (g *Graph) EdgesFrom(osmID int64) []Edge {
	return g.edgesByStartingNode[osmID]
}

func (g *Graph) Point(osmID int64) (geospatial.Point, bool) {
	point, exists := g.points[osmID]
	return point, exists
}

// BusStop looks a stop up by its exact, case-sensitive name
func (g *Graph) BusStop(name string) (BusStop, bool) {
	busStop, exists := g.busStops[name]
	return busStop, exists
}

func (g *Graph) NumberOfEdges() int {
	count := 0
	for _, edges := range g.edgesByStartingNode {
		count += len(edges)
	}

	return count
}

func (g *Graph) NumberOfBusStops() int {
	return len(g.busStops)
}
