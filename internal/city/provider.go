package city

import (
	"context"
	"fmt"
)

// Coordinate is a single latitude/longitude entry of the insights payload.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// KnownForEntry is one notable fact about a city.
type KnownForEntry struct {
	Content string `json:"content"`
}

// Insights is the upstream payload for GET /cities/{id}/insights.
type Insights struct {
	Coordinates []Coordinate    `json:"coordinates"`
	Population  float64         `json:"population"`
	KnownFor    []KnownForEntry `json:"knownFor"`
}

// Prediction is a single day of an upstream weather forecast.
// Date is formatted as YYYY-MM-DD.
type Prediction struct {
	Date           string  `json:"date"`
	MinTemperature float64 `json:"minTemperature"`
	MaxTemperature float64 `json:"maxTemperature"`
}

// WeatherReport is one element of the upstream weather-predictions array.
type WeatherReport struct {
	Predictions []Prediction `json:"predictions"`
}

// Provider abstracts the upstream city data source.
type Provider interface {
	Insights(ctx context.Context, cityID string) (Insights, error)
	WeatherPredictions(ctx context.Context, cityID string) ([]WeatherReport, error)
}

// RecipeStore is the contract the in-memory recipe store must satisfy.
type RecipeStore interface {
	Append(cityID, content string) Recipe
	Remove(cityID string, recipeID int64) error
	List(cityID string) []Recipe
}

// StatusError is returned by a Provider when the upstream answered with a
// non-success HTTP status.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s returned status %d", e.Endpoint, e.Code)
}
