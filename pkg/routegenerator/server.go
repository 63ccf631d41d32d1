package routegenerator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/travigo/lookahead/pkg/http_server"
)

type server struct {
	router         *Router
	requestTimeout time.Duration
}

func SetupServer(router *Router, requestTimeout time.Duration) *fiber.App {
	s := &server{router: router, requestTimeout: requestTimeout}

	webApp := fiber.New(fiber.Config{DisableStartupMessage: true})
	webApp.Use(http_server.NewLogger())

	webApp.Post("/get_route_between_two_bus_stops", s.routeBetweenTwoBusStops)
	webApp.Post("/get_route_between_multiple_bus_stops", s.routeBetweenMultipleBusStops)
	webApp.Post("/get_waypoints_between_two_bus_stops", s.waypointsBetweenTwoBusStops)
	webApp.Post("/get_waypoints_between_multiple_bus_stops", s.waypointsBetweenMultipleBusStops)

	return webApp
}

func (s *server) routeBetweenTwoBusStops(c *fiber.Ctx) error {
	var request TwoBusStopsRequest
	if err := s.parse(c, &request); err != nil {
		return s.fail(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	route, err := s.router.RouteBetweenTwoBusStops(ctx, *request.StartingBusStop, *request.EndingBusStop)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(route)
}

func (s *server) routeBetweenMultipleBusStops(c *fiber.Ctx) error {
	var request MultipleBusStopsRequest
	if err := s.parse(c, &request); err != nil {
		return s.fail(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	routes, err := s.router.RouteBetweenMultipleBusStops(ctx, request.BusStops)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(routes)
}

func (s *server) waypointsBetweenTwoBusStops(c *fiber.Ctx) error {
	var request TwoBusStopNamesRequest
	if err := s.parse(c, &request); err != nil {
		return s.fail(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	waypoints, err := s.router.WaypointsBetweenTwoBusStops(ctx, request.StartingBusStopName, request.EndingBusStopName)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(waypoints)
}

func (s *server) waypointsBetweenMultipleBusStops(c *fiber.Ctx) error {
	var request MultipleBusStopNamesRequest
	if err := s.parse(c, &request); err != nil {
		return s.fail(c, err)
	}

	ctx, cancel := s.requestContext(c)
	defer cancel()

	waypoints, err := s.router.WaypointsBetweenMultipleBusStops(ctx, request.BusStopNames)
	if err != nil {
		return s.fail(c, err)
	}

	return c.JSON(waypoints)
}

type validator interface {
	Validate() error
}

func (s *server) parse(c *fiber.Ctx, request validator) error {
	if err := json.Unmarshal(c.Body(), request); err != nil {
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}

	return request.Validate()
}

func (s *server) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(c.UserContext())
	}

	return context.WithTimeout(c.UserContext(), s.requestTimeout)
}

// fail keeps the coarse wire contract, every failure is a 500 with a plain ERROR body
func (s *server) fail(c *fiber.Ctx, err error) error {
	log.Error().Err(err).Str("path", c.Path()).Msg("Route request failed")

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(fiber.StatusInternalServerError).SendString("ERROR")
}
