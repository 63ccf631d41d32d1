package routes

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/lookahead/pkg/store"
)

func BusLinesRouter(router fiber.Router, repository Repository) {
	router.Get("/", func(c *fiber.Ctx) error {
		return listBusLines(c, repository)
	})
	router.Get("/:line_id", func(c *fiber.Ctx) error {
		return getBusLine(c, repository)
	})
}

func listBusLines(c *fiber.Ctx, repository Repository) error {
	busLines, err := repository.FindBusLines(c.UserContext())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	busLinesReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, busLines)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce bus lines",
		})
	}

	return c.JSON(busLinesReduced)
}

func getBusLine(c *fiber.Ctx, repository Repository) error {
	lineID, err := lineIDParam(c)
	if err != nil {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	busLine, err := repository.FindBusLine(c.UserContext(), lineID)
	if errors.Is(err, store.ErrNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find bus line matching line id",
		})
	} else if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	busLineReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, busLine)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce bus line",
		})
	}

	return c.JSON(busLineReduced)
}

func lineIDParam(c *fiber.Ctx) (int, error) {
	lineID, err := strconv.Atoi(c.Params("line_id"))
	if err != nil {
		return 0, errors.New("line id must be an integer")
	}

	return lineID, nil
}
