package routes

import "github.com/gofiber/fiber/v2"

func BusVehiclesRouter(router fiber.Router, repository Repository) {
	router.Get("/", func(c *fiber.Ctx) error {
		busVehicles, err := repository.FindBusVehicles(c.UserContext())
		if err != nil {
			c.SendStatus(fiber.StatusInternalServerError)
			return c.JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		return c.JSON(busVehicles)
	})
}
