package routegenerator

import (
	"fmt"

	"github.com/travigo/lookahead/pkg/roadgraph"
)

type StopPairRoute struct {
	StartingBusStop roadgraph.BusStop `json:"starting_bus_stop"`
	EndingBusStop   roadgraph.BusStop `json:"ending_bus_stop"`
	Route           *roadgraph.Path   `json:"route"`
}

type StopPairWaypoints struct {
	StartingBusStop roadgraph.BusStop  `json:"starting_bus_stop"`
	EndingBusStop   roadgraph.BusStop  `json:"ending_bus_stop"`
	Waypoints       [][]roadgraph.Edge `json:"waypoints"`
}

type TwoBusStopsRequest struct {
	StartingBusStop *roadgraph.BusStop `json:"starting_bus_stop"`
	EndingBusStop   *roadgraph.BusStop `json:"ending_bus_stop"`
}

func (r *TwoBusStopsRequest) Validate() error {
	if r.StartingBusStop == nil || r.EndingBusStop == nil {
		return fmt.Errorf("%w: starting_bus_stop and ending_bus_stop are required", ErrBadRequest)
	}
	return nil
}

type MultipleBusStopsRequest struct {
	BusStops []roadgraph.BusStop `json:"bus_stops"`
}

func (r *MultipleBusStopsRequest) Validate() error {
	if len(r.BusStops) < 2 {
		return fmt.Errorf("%w: bus_stops needs at least two stops", ErrBadRequest)
	}
	return nil
}

type TwoBusStopNamesRequest struct {
	StartingBusStopName string `json:"starting_bus_stop_name"`
	EndingBusStopName   string `json:"ending_bus_stop_name"`
}

func (r *TwoBusStopNamesRequest) Validate() error {
	if r.StartingBusStopName == "" || r.EndingBusStopName == "" {
		return fmt.Errorf("%w: starting_bus_stop_name and ending_bus_stop_name are required", ErrBadRequest)
	}
	return nil
}

type MultipleBusStopNamesRequest struct {
	BusStopNames []string `json:"bus_stop_names"`
}

func (r *MultipleBusStopNamesRequest) Validate() error {
	if len(r.BusStopNames) < 2 {
		return fmt.Errorf("%w: bus_stop_names needs at least two names", ErrBadRequest)
	}
	return nil
}
