package roadgraph

import "errors"

var (
	ErrNoPath          = errors.New("no path between nodes")
	ErrTimeout         = errors.New("path search timed out")
	ErrUnknownRoadType = errors.New("unknown road type")
)
