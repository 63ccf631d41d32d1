package osmimport

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/lookahead/pkg/roadgraph"
)

const testExtract = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
  <node id="1" lat="55.600" lon="13.000"/>
  <node id="2" lat="55.601" lon="13.001">
    <tag k="highway" v="bus_stop"/>
    <tag k="name" v="Central"/>
  </node>
  <node id="3" lat="55.602" lon="13.002">
    <tag k="addr:street" v="Main Street"/>
    <tag k="addr:housenumber" v="1-3"/>
  </node>
  <node id="4" lat="55.603" lon="13.003"/>
  <node id="5" lat="55.604" lon="13.004"/>
  <way id="10">
    <nd ref="1"/>
    <nd ref="2"/>
    <nd ref="3"/>
    <tag k="highway" v="primary"/>
    <tag k="name" v="Main Street"/>
    <tag k="maxspeed" v="30 mph"/>
  </way>
  <way id="11">
    <nd ref="3"/>
    <nd ref="4"/>
    <tag k="highway" v="residential"/>
    <tag k="oneway" v="yes"/>
  </way>
  <way id="12">
    <nd ref="4"/>
    <nd ref="5"/>
    <tag k="highway" v="footway"/>
  </way>
  <way id="13">
    <nd ref="4"/>
    <nd ref="99"/>
    <tag k="highway" v="secondary"/>
  </way>
</osm>`

func TestReadXML(t *testing.T) {
	importer := NewImporter(50)
	require.NoError(t, importer.ReadXML(context.Background(), strings.NewReader(testExtract)))

	assert.Len(t, importer.Points, 5)
	assert.Len(t, importer.Nodes, 2)

	// The footway is not a bus road
	require.Len(t, importer.Ways, 3)

	// Two segments both ways, one oneway segment, the reference to a missing node is dropped
	require.Len(t, importer.Edges, 5)

	first := importer.Edges[0]
	assert.Equal(t, int64(1), first.StartingNode.OsmID)
	assert.Equal(t, int64(2), first.EndingNode.OsmID)
	assert.InDelta(t, 48.28, first.MaxSpeed, 0.01)
	assert.Equal(t, "primary", first.RoadType)
	assert.Equal(t, int64(10), first.WayID)
	assert.Zero(t, first.TrafficDensity)

	reverse := importer.Edges[1]
	assert.Equal(t, int64(2), reverse.StartingNode.OsmID)
	assert.Equal(t, int64(1), reverse.EndingNode.OsmID)

	oneway := importer.Edges[4]
	assert.Equal(t, int64(3), oneway.StartingNode.OsmID)
	assert.Equal(t, int64(4), oneway.EndingNode.OsmID)
	assert.Equal(t, 50.0, oneway.MaxSpeed)

	require.Len(t, importer.BusStops, 1)
	assert.Equal(t, roadgraph.BusStop{OsmID: 2, Name: "Central", Point: importer.BusStops[0].Point}, importer.BusStops[0])
	assert.Equal(t, 13.001, importer.BusStops[0].Point.Longitude)

	var names []string
	for _, address := range importer.Addresses {
		names = append(names, address.Name)
	}
	assert.ElementsMatch(t, []string{
		"Central",
		"Main Street 1", "Main Street 2", "Main Street 3",
		"Main Street", "Main Street", "Main Street",
	}, names)

	bound := importer.Bound()
	assert.Equal(t, 13.0, bound[0].Longitude)
	assert.Equal(t, 55.604, bound[1].Latitude)
}

func TestParseMaxSpeed(t *testing.T) {
	assert.Equal(t, 30.0, ParseMaxSpeed("30", 50))
	assert.Equal(t, 80.0, ParseMaxSpeed("80 km/h", 50))
	assert.InDelta(t, 32.19, ParseMaxSpeed("20 mph", 50), 0.01)
	assert.Equal(t, 50.0, ParseMaxSpeed("none", 50))
	assert.Equal(t, 50.0, ParseMaxSpeed("", 50))
	assert.Equal(t, 50.0, ParseMaxSpeed("0", 50))
}

func TestAddressRange(t *testing.T) {
	assert.Equal(t, []string{"1A", "1B", "1C"}, AddressRange("1A-1C"))
	assert.Equal(t, []string{"2", "3", "4"}, AddressRange("2 - 4"))
	assert.Equal(t, []string{"3", "5"}, AddressRange("3, 5"))
	assert.Equal(t, []string{"7B"}, AddressRange("7B"))
}
