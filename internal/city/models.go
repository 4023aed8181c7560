package city

// Recipe is a user-submitted text annotation attached to a city.
type Recipe struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// When labels a weather prediction relative to the current UTC date.
type When string

const (
	WhenToday    When = "today"
	WhenTomorrow When = "tomorrow"
)

// WeatherPrediction is the public shape of a single forecast entry.
type WeatherPrediction struct {
	When When    `json:"when"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
}

// Info is the aggregated view returned for a city: upstream insights and
// weather merged with the recipes stored locally.
type Info struct {
	Coordinates        [2]float64          `json:"coordinates"` // latitude, longitude
	Population         float64             `json:"population"`
	KnownFor           []string            `json:"knownFor"`
	WeatherPredictions []WeatherPrediction `json:"weatherPredictions"`
	Recipes            []Recipe            `json:"recipes"`
}

// NewRecipeRequest is the body accepted when creating a recipe.
type NewRecipeRequest struct {
	Content string `json:"content" validate:"required,min=10,max=2000"`
}
