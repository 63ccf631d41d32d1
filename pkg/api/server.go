package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/lookahead/pkg/api/routes"
	"github.com/travigo/lookahead/pkg/http_server"
)

func NewApp(repository routes.Repository) *fiber.App {
	webApp := fiber.New()
	webApp.Use(http_server.NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.BusLinesRouter(group.Group("/bus_lines"), repository)
	routes.TimetablesRouter(group.Group("/timetables"), repository)
	routes.BusVehiclesRouter(group.Group("/bus_vehicles"), repository)

	return webApp
}

func SetupServer(listen string, repository routes.Repository) error {
	return NewApp(repository).Listen(listen)
}
