// Package geocode resolves place names to longitudes. Backends are external
// collaborators; Cache keeps the results for the process lifetime.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/yjk624/shinryeong/pkg/models/domain"
)

// Resolver looks a place name up. A miss is reported as an error wrapping
// domain.ErrLocationNotResolved.
type Resolver interface {
	Resolve(ctx context.Context, place string) (domain.Location, error)
}

// NormalizeKey folds a place name into the form used for lookups: NFC
// composed (Hangul typed on some systems arrives decomposed), case-folded and
// with runs of whitespace collapsed.
func NormalizeKey(place string) string {
	s := norm.NFC.String(place)
	s = strings.Join(strings.Fields(s), " ")
	return cases.Fold().String(s)
}

func notFound(place string) error {
	return fmt.Errorf("%w: no match for %q", domain.ErrLocationNotResolved, place)
}

type chain struct {
	resolvers []Resolver
}

// NewChain tries each resolver in order and returns the first hit. Backend
// failures are logged and skipped; if every backend misses the result is a
// not-found error, and if none of them could answer at all the last failure
// is returned alongside it.
func NewChain(resolvers ...Resolver) Resolver {
	return &chain{resolvers: resolvers}
}

func (c *chain) Resolve(ctx context.Context, place string) (domain.Location, error) {
	logger := zerolog.Ctx(ctx)

	var lastErr error
	for _, r := range c.resolvers {
		loc, err := r.Resolve(ctx, place)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, domain.ErrLocationNotResolved) {
			logger.Warn().Err(err).Str("place", place).Msg("geocoding backend failed")
			lastErr = err
		}
	}

	if lastErr != nil {
		return domain.Location{}, fmt.Errorf("%w: %q (last backend error: %v)",
			domain.ErrLocationNotResolved, place, lastErr)
	}
	return domain.Location{}, notFound(place)
}
