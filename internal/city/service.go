package city

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Service aggregates upstream city data with locally stored recipes.
type Service struct {
	provider Provider
	store    RecipeStore
	validate *validator.Validate
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the clock used to label weather predictions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// NewService creates a new Service.
func NewService(provider Provider, store RecipeStore, opts ...Option) *Service {
	s := &Service{
		provider: provider,
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCityInfo fetches insights and weather concurrently and merges them with
// the city's recipes. An unknown city fails with ErrNotFound regardless of
// how the weather lookup ended.
func (s *Service) GetCityInfo(ctx context.Context, cityID string) (Info, error) {
	var (
		ins        Insights
		reports    []WeatherReport
		insErr     error
		weatherErr error
	)

	// A plain group: neither lookup may cancel the other.
	var g errgroup.Group
	g.Go(func() error {
		ins, insErr = s.provider.Insights(ctx, cityID)
		return insErr
	})
	g.Go(func() error {
		reports, weatherErr = s.provider.WeatherPredictions(ctx, cityID)
		return weatherErr
	})
	_ = g.Wait()

	// Insights decides whether the city exists.
	if insErr != nil {
		return Info{}, s.classify(insErr, cityID, "insights")
	}
	if weatherErr != nil {
		return Info{}, s.classify(weatherErr, cityID, "weather")
	}

	info, err := BuildCityInfo(ins, reports, s.store.List(cityID), s.now())
	if err != nil {
		s.log.Error().Err(err).Str("city", cityID).Msg("unusable upstream payload")
		return Info{}, err
	}
	return info, nil
}

// CreateRecipe validates content, confirms the city exists upstream and
// appends a new recipe to its collection.
func (s *Service) CreateRecipe(ctx context.Context, cityID, content string) (Recipe, error) {
	if err := s.validate.Struct(NewRecipeRequest{Content: content}); err != nil {
		return Recipe{}, fmt.Errorf("%w: content must be between 10 and 2000 characters", ErrInvalidInput)
	}

	if _, err := s.provider.Insights(ctx, cityID); err != nil {
		return Recipe{}, s.classify(err, cityID, "insights")
	}

	rec := s.store.Append(cityID, content)
	s.log.Debug().Str("city", cityID).Int64("recipe", rec.ID).Msg("recipe created")
	return rec, nil
}

// DeleteRecipe removes a recipe by id. recipeID is read like a loosely typed
// integer: leading whitespace and sign are accepted and parsing stops at the
// first non-digit, so "5abc" matches 5. A value without leading digits never
// matches.
func (s *Service) DeleteRecipe(_ context.Context, cityID, recipeID string) error {
	id, ok := leadingInt(recipeID)
	if !ok {
		if len(s.store.List(cityID)) == 0 {
			return ErrNoRecipes
		}
		return ErrRecipeNotFound
	}

	if err := s.store.Remove(cityID, id); err != nil {
		return err
	}
	s.log.Debug().Str("city", cityID).Int64("recipe", id).Msg("recipe deleted")
	return nil
}

// leadingInt parses the integer prefix of s.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r\v\f")

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ListRecipes returns the city's recipes in insertion order.
func (s *Service) ListRecipes(cityID string) []Recipe {
	return s.store.List(cityID)
}

// classify maps provider failures onto the service error kinds.
func (s *Service) classify(err error, cityID, lookup string) error {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return fmt.Errorf("%w: city %q (%s status %d)", ErrNotFound, cityID, lookup, statusErr.Code)
	}

	s.log.Error().Err(err).Str("city", cityID).Str("lookup", lookup).Msg("upstream lookup failed")
	return fmt.Errorf("%w: %s lookup: %w", ErrUpstreamUnavailable, lookup, err)
}
