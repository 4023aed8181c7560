package city

import (
	"fmt"
	"time"
)

// maxPredictions is the number of forecast entries exposed per city.
const maxPredictions = 2

// BuildCityInfo reshapes upstream payloads into the public Info contract.
// now decides which prediction is labelled "today"; it is compared as a UTC
// calendar date.
func BuildCityInfo(ins Insights, reports []WeatherReport, recipes []Recipe, now time.Time) (Info, error) {
	if len(ins.Coordinates) == 0 {
		return Info{}, fmt.Errorf("%w: insights payload has no coordinates", ErrUpstreamUnavailable)
	}

	knownFor := make([]string, 0, len(ins.KnownFor))
	for _, k := range ins.KnownFor {
		knownFor = append(knownFor, k.Content)
	}

	if recipes == nil {
		recipes = []Recipe{}
	}

	return Info{
		Coordinates:        [2]float64{ins.Coordinates[0].Latitude, ins.Coordinates[0].Longitude},
		Population:         ins.Population,
		KnownFor:           knownFor,
		WeatherPredictions: buildPredictions(reports, now),
		Recipes:            recipes,
	}, nil
}

func buildPredictions(reports []WeatherReport, now time.Time) []WeatherPrediction {
	out := make([]WeatherPrediction, 0, maxPredictions)
	if len(reports) == 0 {
		return out
	}

	today := now.UTC().Format(time.DateOnly)
	for _, p := range reports[0].Predictions {
		if len(out) == maxPredictions {
			break
		}
		when := WhenTomorrow
		if p.Date == today {
			when = WhenToday
		}
		out = append(out, WeatherPrediction{
			When: when,
			Min:  p.MinTemperature,
			Max:  p.MaxTemperature,
		})
	}
	return out
}
