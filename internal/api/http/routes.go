package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-recipes/internal/city"
	"github.com/i474232898/city-recipes/internal/city/upstream"
	"github.com/i474232898/city-recipes/internal/metrics"
)

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *city.Service) {
	cities := app.Group("/cities/:cityId")

	cities.Get("/infos", func(c *fiber.Ctx) error {
		info, err := service.GetCityInfo(c.UserContext(), c.Params("cityId"))
		if err != nil {
			return toHTTPError(err)
		}
		return c.JSON(info)
	})

	cities.Post("/recipes", func(c *fiber.Ctx) error {
		var req city.NewRecipeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		rec, err := service.CreateRecipe(c.UserContext(), c.Params("cityId"), req.Content)
		if err != nil {
			return toHTTPError(err)
		}

		metrics.RecipesCreated.Inc()
		return c.Status(fiber.StatusCreated).JSON(rec)
	})

	cities.Delete("/recipes/:recipeId", func(c *fiber.Ctx) error {
		if err := service.DeleteRecipe(c.UserContext(), c.Params("cityId"), c.Params("recipeId")); err != nil {
			return toHTTPError(err)
		}

		metrics.RecipesDeleted.Inc()
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// toHTTPError maps service errors to client-facing errors. Messages stay
// generic; upstream details are only logged.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, city.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, "content must be between 10 and 2000 characters")
	case errors.Is(err, city.ErrRecipeNotFound):
		return fiber.NewError(fiber.StatusNotFound, "recipe not found")
	case errors.Is(err, city.ErrNoRecipes):
		return fiber.NewError(fiber.StatusNotFound, "city not found or no recipes")
	case errors.Is(err, city.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "city not found")
	case errors.Is(err, upstream.ErrCircuitOpen):
		return fiber.NewError(fiber.StatusServiceUnavailable, "upstream temporarily unavailable")
	case errors.Is(err, city.ErrUpstreamUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, "upstream unavailable")
	default:
		return err
	}
}
