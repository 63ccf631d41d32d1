package routes

import (
	"context"

	"github.com/travigo/lookahead/pkg/transit"
)

type Repository interface {
	FindBusLines(ctx context.Context) ([]transit.BusLine, error)
	FindBusLine(ctx context.Context, lineID int) (*transit.BusLine, error)
	FindTimetables(ctx context.Context, lineID int) ([]*transit.Timetable, error)
	FindBusVehicles(ctx context.Context) ([]*transit.BusVehicle, error)
}
