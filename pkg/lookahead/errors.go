package lookahead

import "errors"

var (
	// ErrLineUnroutable is returned when an adjacent pair of stops on a line has no route
	ErrLineUnroutable = errors.New("bus line cannot be routed")

	ErrBadStop             = errors.New("bus stop is not on the line")
	ErrRequestUnassignable = errors.New("travel request cannot be placed on the line")

	// ErrCapacityInfeasible is returned when overcrowded trips could not be split within the capacity
	ErrCapacityInfeasible = errors.New("capacity cannot be satisfied")
)
