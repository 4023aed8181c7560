package city_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/city-recipes/internal/city"
	"github.com/i474232898/city-recipes/internal/store"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

type fakeProvider struct {
	insights     map[string]city.Insights
	weather      map[string][]city.WeatherReport
	insightsErr  error
	weatherErr   error
	insightCalls atomic.Int32
	weatherCalls atomic.Int32
}

func (f *fakeProvider) Insights(_ context.Context, cityID string) (city.Insights, error) {
	f.insightCalls.Add(1)
	if f.insightsErr != nil {
		return city.Insights{}, f.insightsErr
	}
	ins, ok := f.insights[cityID]
	if !ok {
		return city.Insights{}, &city.StatusError{Endpoint: "insights", Code: 404}
	}
	return ins, nil
}

func (f *fakeProvider) WeatherPredictions(ctx context.Context, cityID string) ([]city.WeatherReport, error) {
	f.weatherCalls.Add(1)
	if f.weatherErr != nil {
		return nil, f.weatherErr
	}
	w, ok := f.weather[cityID]
	if !ok {
		return nil, &city.StatusError{Endpoint: "weather", Code: 404}
	}
	return w, nil
}

func parisProvider() *fakeProvider {
	return &fakeProvider{
		insights: map[string]city.Insights{
			"paris": {
				Coordinates: []city.Coordinate{{Latitude: 48.85, Longitude: 2.35}},
				Population:  2000000,
				KnownFor:    []city.KnownForEntry{{Content: "art"}},
			},
		},
		weather: map[string][]city.WeatherReport{
			"paris": {{Predictions: []city.Prediction{
				{Date: "2026-10-18", MinTemperature: 10, MaxTemperature: 20},
				{Date: "2026-10-19", MinTemperature: 11, MaxTemperature: 21},
				{Date: "2026-10-20", MinTemperature: 12, MaxTemperature: 22},
			}}},
		},
	}
}

func newService(p city.Provider) *city.Service {
	return city.NewService(p, store.NewMemoryStore(nil), city.WithClock(func() time.Time { return fixedNow }))
}

func TestGetCityInfoParis(t *testing.T) {
	svc := newService(parisProvider())

	info, err := svc.GetCityInfo(context.Background(), "paris")
	require.NoError(t, err)

	assert.Equal(t, [2]float64{48.85, 2.35}, info.Coordinates)
	assert.Equal(t, float64(2000000), info.Population)
	assert.Equal(t, []string{"art"}, info.KnownFor)
	assert.Equal(t, []city.WeatherPrediction{
		{When: city.WhenToday, Min: 10, Max: 20},
		{When: city.WhenTomorrow, Min: 11, Max: 21},
	}, info.WeatherPredictions)
	require.NotNil(t, info.Recipes)
	assert.Empty(t, info.Recipes)
}

func TestGetCityInfoUnknownCity(t *testing.T) {
	svc := newService(parisProvider())

	_, err := svc.GetCityInfo(context.Background(), "atlantis")
	assert.ErrorIs(t, err, city.ErrNotFound)
}

func TestGetCityInfoInsightsFailureWins(t *testing.T) {
	p := parisProvider()
	p.weatherErr = errors.New("connection reset")
	svc := newService(p)

	_, err := svc.GetCityInfo(context.Background(), "atlantis")
	assert.ErrorIs(t, err, city.ErrNotFound)
	assert.NotErrorIs(t, err, city.ErrUpstreamUnavailable)
}

// slowUnknownProvider answers insights with a delayed 404 and fails weather
// at once. Both lookups honour ctx cancellation.
type slowUnknownProvider struct {
	delay time.Duration
}

func (p slowUnknownProvider) Insights(ctx context.Context, _ string) (city.Insights, error) {
	select {
	case <-ctx.Done():
		return city.Insights{}, ctx.Err()
	case <-time.After(p.delay):
		return city.Insights{}, &city.StatusError{Endpoint: "insights", Code: 404}
	}
}

func (p slowUnknownProvider) WeatherPredictions(context.Context, string) ([]city.WeatherReport, error) {
	return nil, errors.New("connection reset by peer")
}

func TestGetCityInfoSlowInsightsNotFoundBeatsWeatherFailure(t *testing.T) {
	svc := newService(slowUnknownProvider{delay: 50 * time.Millisecond})

	for i := 0; i < 5; i++ {
		_, err := svc.GetCityInfo(context.Background(), "atlantis")
		assert.ErrorIs(t, err, city.ErrNotFound)
		assert.NotErrorIs(t, err, city.ErrUpstreamUnavailable)
		assert.NotErrorIs(t, err, context.Canceled)
	}
}

func TestGetCityInfoTransportFailure(t *testing.T) {
	p := parisProvider()
	p.insightsErr = errors.New("dial tcp: connection refused")
	svc := newService(p)

	_, err := svc.GetCityInfo(context.Background(), "paris")
	assert.ErrorIs(t, err, city.ErrUpstreamUnavailable)
}

func TestGetCityInfoWeatherStatusIsNotFound(t *testing.T) {
	p := parisProvider()
	delete(p.weather, "paris")
	svc := newService(p)

	_, err := svc.GetCityInfo(context.Background(), "paris")
	assert.ErrorIs(t, err, city.ErrNotFound)
}

func TestGetCityInfoIsRepeatable(t *testing.T) {
	svc := newService(parisProvider())
	_, err := svc.CreateRecipe(context.Background(), "paris", "a recipe for crepes")
	require.NoError(t, err)

	first, err := svc.GetCityInfo(context.Background(), "paris")
	require.NoError(t, err)
	second, err := svc.GetCityInfo(context.Background(), "paris")
	require.NoError(t, err)

	assert.Equal(t, first.Recipes, second.Recipes)
}

func TestCreateRecipe(t *testing.T) {
	svc := newService(parisProvider())

	rec, err := svc.CreateRecipe(context.Background(), "paris", "a recipe for crepes")
	require.NoError(t, err)
	assert.Equal(t, "a recipe for crepes", rec.Content)
	assert.Equal(t, int64(1), rec.ID)

	info, err := svc.GetCityInfo(context.Background(), "paris")
	require.NoError(t, err)
	assert.Equal(t, []city.Recipe{rec}, info.Recipes)
}

func TestCreateRecipeContentBounds(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr bool
	}{
		{name: "empty", content: "", wantErr: true},
		{name: "nine chars", content: strings.Repeat("a", 9), wantErr: true},
		{name: "ten chars", content: strings.Repeat("a", 10)},
		{name: "two thousand chars", content: strings.Repeat("a", 2000)},
		{name: "too long", content: strings.Repeat("a", 2001), wantErr: true},
		{name: "multibyte counted as characters", content: strings.Repeat("é", 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(parisProvider())

			_, err := svc.CreateRecipe(context.Background(), "paris", tt.content)
			if tt.wantErr {
				assert.ErrorIs(t, err, city.ErrInvalidInput)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCreateRecipeInvalidContentSkipsUpstream(t *testing.T) {
	p := parisProvider()
	svc := newService(p)

	_, err := svc.CreateRecipe(context.Background(), "atlantis", "short")
	assert.ErrorIs(t, err, city.ErrInvalidInput)
	assert.Zero(t, p.insightCalls.Load())
}

func TestCreateRecipeUnknownCity(t *testing.T) {
	svc := newService(parisProvider())

	_, err := svc.CreateRecipe(context.Background(), "atlantis", "a recipe for nothing")
	assert.ErrorIs(t, err, city.ErrNotFound)
	assert.Empty(t, svc.ListRecipes("atlantis"))
}

func TestDeleteRecipe(t *testing.T) {
	svc := newService(parisProvider())
	ctx := context.Background()

	a, err := svc.CreateRecipe(ctx, "paris", "recipe number one")
	require.NoError(t, err)
	b, err := svc.CreateRecipe(ctx, "paris", "recipe number two")
	require.NoError(t, err)

	aID := strconv.FormatInt(a.ID, 10)
	require.NoError(t, svc.DeleteRecipe(ctx, "paris", aID))
	assert.Equal(t, []city.Recipe{b}, svc.ListRecipes("paris"))

	err = svc.DeleteRecipe(ctx, "paris", aID)
	assert.ErrorIs(t, err, city.ErrRecipeNotFound)

	err = svc.DeleteRecipe(ctx, "paris", "not-a-number")
	assert.ErrorIs(t, err, city.ErrRecipeNotFound)

	// Only the leading integer is read.
	require.NoError(t, svc.DeleteRecipe(ctx, "paris", strconv.FormatInt(b.ID, 10)+"abc"))
	assert.Empty(t, svc.ListRecipes("paris"))
}

func TestDeleteRecipeLeadingInteger(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{name: "plain", raw: "1", ok: true},
		{name: "trailing garbage", raw: "1abc", ok: true},
		{name: "leading spaces", raw: "  1", ok: true},
		{name: "plus sign", raw: "+1", ok: true},
		{name: "decimal", raw: "1.9", ok: true},
		{name: "letters first", raw: "abc1"},
		{name: "sign only", raw: "-"},
		{name: "empty", raw: ""},
		{name: "other id", raw: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(parisProvider())
			_, err := svc.CreateRecipe(context.Background(), "paris", "recipe number one")
			require.NoError(t, err)

			err = svc.DeleteRecipe(context.Background(), "paris", tt.raw)
			if tt.ok {
				assert.NoError(t, err)
				assert.Empty(t, svc.ListRecipes("paris"))
				return
			}
			assert.ErrorIs(t, err, city.ErrRecipeNotFound)
			assert.Len(t, svc.ListRecipes("paris"), 1)
		})
	}
}

func TestDeleteRecipeCityWithoutRecipes(t *testing.T) {
	svc := newService(parisProvider())

	assert.ErrorIs(t, svc.DeleteRecipe(context.Background(), "paris", "1"), city.ErrNoRecipes)
	assert.ErrorIs(t, svc.DeleteRecipe(context.Background(), "paris", "abc"), city.ErrNoRecipes)
}
