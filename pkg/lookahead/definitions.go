package lookahead

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// BusLineDefinition is one YAML document of a bus line file, eg.
//
//	LineID: 1
//	BusStops: [Centralstationen, Stora Torget, Flogsta]
type BusLineDefinition struct {
	LineID   int      `yaml:"LineID"`
	BusStops []string `yaml:"BusStops"`
}

// ReadBusLineDefinitions decodes every document of a multi-document YAML stream
func ReadBusLineDefinitions(r io.Reader) ([]BusLineDefinition, error) {
	decoder := yaml.NewDecoder(r)

	var definitions []BusLineDefinition
	for {
		var definition BusLineDefinition
		err := decoder.Decode(&definition)
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding bus line definition %d: %w", len(definitions)+1, err)
		}

		if len(definition.BusStops) < 2 {
			return nil, fmt.Errorf("bus line %d needs at least two bus stops", definition.LineID)
		}

		definitions = append(definitions, definition)
	}

	return definitions, nil
}
