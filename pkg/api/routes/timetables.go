package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
)

func TimetablesRouter(router fiber.Router, repository Repository) {
	router.Get("/:line_id", func(c *fiber.Ctx) error {
		return listTimetables(c, repository)
	})
}

// listTimetables returns the trips of a line, the travel requests of each trip only with ?detailed=true
func listTimetables(c *fiber.Ctx, repository Repository) error {
	lineID, err := lineIDParam(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	timetables, err := repository.FindTimetables(c.UserContext(), lineID)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	groups := []string{"basic"}
	if c.QueryBool("detailed") {
		groups = append(groups, "detailed")
	}

	timetablesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, timetables)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce timetables",
		})
	}

	return c.JSON(timetablesReduced)
}
