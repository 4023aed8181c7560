package city

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a city or a recipe is unknown.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput is returned when recipe content fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstreamUnavailable is returned when the upstream provider could not
	// be reached or answered with an unusable payload.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrNoRecipes is returned when deleting from a city without recipes.
	ErrNoRecipes = fmt.Errorf("city has no recipes: %w", ErrNotFound)

	// ErrRecipeNotFound is returned when the recipe id is not in the city's collection.
	ErrRecipeNotFound = fmt.Errorf("recipe not found: %w", ErrNotFound)
)
