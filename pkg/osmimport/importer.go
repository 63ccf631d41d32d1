package osmimport

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmxml"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/geospatial"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

const milesToKilometres = 1.609344

// Importer collects the road network, bus stops and addresses of an OSM extract
type Importer struct {
	StandardSpeed float64

	Points    []roadgraph.PointDocument
	Nodes     []roadgraph.Node
	Ways      []roadgraph.Way
	Edges     []roadgraph.Edge
	BusStops  []roadgraph.BusStop
	Addresses []roadgraph.Address

	pointsByID map[int64]geospatial.Point
	addressSet map[addressKey]bool
}

type addressKey struct {
	name   string
	nodeID int64
}

func NewImporter(standardSpeed float64) *Importer {
	return &Importer{
		StandardSpeed: standardSpeed,
		pointsByID:    map[int64]geospatial.Point{},
		addressSet:    map[addressKey]bool{},
	}
}

// ReadXML streams an OSM XML document, nodes have to come before the ways referencing them
func (i *Importer) ReadXML(ctx context.Context, reader io.Reader) error {
	scanner := osmxml.New(ctx, reader)
	defer scanner.Close()

	for scanner.Scan() {
		switch object := scanner.Object().(type) {
		case *osm.Node:
			i.addNode(object)
		case *osm.Way:
			i.addWay(object)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading osm xml: %w", err)
	}

	log.Info().
		Int("points", len(i.Points)).
		Int("ways", len(i.Ways)).
		Int("edges", len(i.Edges)).
		Int("bus_stops", len(i.BusStops)).
		Int("addresses", len(i.Addresses)).
		Msg("Read OSM extract")

	return nil
}

func (i *Importer) addNode(node *osm.Node) {
	osmID := int64(node.ID)
	point := geospatial.NewPoint(node.Lon, node.Lat)

	i.pointsByID[osmID] = point
	i.Points = append(i.Points, roadgraph.PointDocument{OsmID: osmID, Point: point})

	if len(node.Tags) == 0 {
		return
	}

	i.Nodes = append(i.Nodes, roadgraph.Node{OsmID: osmID, Tags: node.Tags.Map(), Point: point})

	name := node.Tags.Find("name")
	if name != "" && isBusStop(node.Tags) {
		i.BusStops = append(i.BusStops, roadgraph.BusStop{OsmID: osmID, Name: name, Point: point})
	}

	i.addAddress(name, osmID, point)

	street := node.Tags.Find("addr:street")
	houseNumber := node.Tags.Find("addr:housenumber")
	if street != "" && houseNumber != "" {
		for _, number := range AddressRange(houseNumber) {
			i.addAddress(street+" "+number, osmID, point)
		}
	}
}

func isBusStop(tags osm.Tags) bool {
	return tags.Find("highway") == "bus_stop" || tags.HasTag("bus")
}

func (i *Importer) addAddress(name string, nodeID int64, point geospatial.Point) {
	if name == "" {
		return
	}

	key := addressKey{name: name, nodeID: nodeID}
	if i.addressSet[key] {
		return
	}
	i.addressSet[key] = true

	i.Addresses = append(i.Addresses, roadgraph.Address{Name: name, NodeID: nodeID, Point: point})
}

func (i *Importer) addWay(way *osm.Way) {
	wayID := int64(way.ID)
	roadType := way.Tags.Find("highway")

	references := make([]int64, 0, len(way.Nodes))
	for _, wayNode := range way.Nodes {
		references = append(references, int64(wayNode.ID))
	}

	if name := way.Tags.Find("name"); name != "" {
		for _, reference := range references {
			if point, exists := i.pointsByID[reference]; exists {
				i.addAddress(name, reference, point)
			}
		}
	}

	if way.Tags.Find("motorcar") == "no" || !roadgraph.IsBusRoadType(roadType) {
		return
	}

	i.Ways = append(i.Ways, roadgraph.Way{OsmID: wayID, Tags: way.Tags.Map(), References: references})

	oneway := isOneway(way.Tags.Find("oneway"))
	maxSpeed := ParseMaxSpeed(way.Tags.Find("maxspeed"), i.StandardSpeed)

	for k := 0; k < len(references)-1; k++ {
		startingPoint, startingExists := i.pointsByID[references[k]]
		endingPoint, endingExists := i.pointsByID[references[k+1]]
		if !startingExists || !endingExists {
			continue
		}

		startingNode := roadgraph.EdgeNode{OsmID: references[k], Point: startingPoint}
		endingNode := roadgraph.EdgeNode{OsmID: references[k+1], Point: endingPoint}

		i.Edges = append(i.Edges, roadgraph.Edge{
			StartingNode: startingNode,
			EndingNode:   endingNode,
			MaxSpeed:     maxSpeed,
			RoadType:     roadType,
			WayID:        wayID,
		})

		if !oneway {
			i.Edges = append(i.Edges, roadgraph.Edge{
				StartingNode: endingNode,
				EndingNode:   startingNode,
				MaxSpeed:     maxSpeed,
				RoadType:     roadType,
				WayID:        wayID,
			})
		}
	}
}

func isOneway(value string) bool {
	switch value {
	case "yes", "true", "1":
		return true
	default:
		return false
	}
}

var maxSpeedPattern = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*(mph|km/h|kmh|kph)?\s*$`)

// ParseMaxSpeed returns the maxspeed tag in km/h, falling back to the standard speed for values
// like "none" or "walk"
func ParseMaxSpeed(value string, standardSpeed float64) float64 {
	match := maxSpeedPattern.FindStringSubmatch(strings.ToLower(value))
	if match == nil {
		return standardSpeed
	}

	speed, err := strconv.ParseFloat(match[1], 64)
	if err != nil || speed <= 0 {
		return standardSpeed
	}

	if match[2] == "mph" {
		speed *= milesToKilometres
	}

	return speed
}

var addressRangePattern = regexp.MustCompile(`(\d+)([a-zA-Z]?)\s*-\s*(\d+)([a-zA-Z]?)`)

// AddressRange expands house numbers like "1A-1C", "2-6" or "3, 5" into the single numbers
func AddressRange(number string) []string {
	match := addressRangePattern.FindStringSubmatch(number)
	if match == nil {
		var numbers []string
		for _, part := range strings.Split(number, ",") {
			if part = strings.TrimSpace(part); part != "" {
				numbers = append(numbers, part)
			}
		}
		return numbers
	}

	startingNumber, startingLetter, endingNumber, endingLetter := match[1], match[2], match[3], match[4]

	if startingLetter != "" && endingLetter != "" {
		var numbers []string
		for letter := startingLetter[0]; letter <= endingLetter[0]; letter++ {
			numbers = append(numbers, startingNumber+string(letter))
		}
		return numbers
	}

	start, _ := strconv.Atoi(startingNumber)
	end, _ := strconv.Atoi(endingNumber)

	var numbers []string
	for n := start; n <= end; n++ {
		numbers = append(numbers, strconv.Itoa(n))
	}

	return numbers
}

// Bound is the extent of every imported point
func (i *Importer) Bound() [2]geospatial.Point {
	points := make([]geospatial.Point, 0, len(i.Points))
	for _, point := range i.Points {
		points = append(points, point.Point)
	}

	bound := geospatial.Bound(points)
	return [2]geospatial.Point{
		geospatial.NewPoint(bound.Min.Lon(), bound.Min.Lat()),
		geospatial.NewPoint(bound.Max.Lon(), bound.Max.Lat()),
	}
}
