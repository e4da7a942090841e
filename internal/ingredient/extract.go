package ingredient

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Seen counts the recipe expansions in progress, keyed by path. A path
// that is entered again while it is still being expanded is a cycle. It is
// shared by every Extract call of one aggregation and is empty between
// calls.
type Seen map[string]int

// ParseRef splits a scaled reference "path:2.5" into path and scale. The
// suffix is only taken as a scale if it parses as a positive number;
// otherwise the whole reference is the path and the scale is 1.
func ParseRef(ref string) (string, float64) {
	idx := strings.LastIndex(ref, ":")
	if idx <= 0 {
		return ref, 1
	}
	scale, err := strconv.ParseFloat(ref[idx+1:], 64)
	if err != nil || scale <= 0 {
		return ref, 1
	}
	return ref[:idx], scale
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAllowPartial makes a missing included recipe a warning instead of
// an error.
func WithAllowPartial(allow bool) Option {
	return func(x *Extractor) {
		x.allowPartial = allow
	}
}

// Extractor resolves recipe references and merges their ingredients.
type Extractor struct {
	recipes      domain.RecipeSource
	log          *logger.Logger
	allowPartial bool
}

// NewExtractor creates an extractor over a recipe source.
func NewExtractor(recipes domain.RecipeSource, log *logger.Logger, opts ...Option) *Extractor {
	x := &Extractor{recipes: recipes, log: log}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Extract merges the ingredients of ref, scaled, into the list. Included
// recipes are expanded every time they are reached, with their scale
// multiplied in.
func (x *Extractor) Extract(ctx context.Context, ref string, into *List, seen Seen) error {
	path, scale := ParseRef(ref)
	if seen[path] > 0 {
		return fmt.Errorf("%s: %w", path, domain.ErrCircularReference)
	}
	return x.expand(ctx, path, scale, into, seen)
}

func (x *Extractor) expand(ctx context.Context, path string, scale float64, into *List, seen Seen) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r, err := x.recipes.Get(ctx, path)
	if err != nil {
		return fmt.Errorf("recipe %q: %w", path, err)
	}
	seen[path]++
	defer func() {
		if seen[path]--; seen[path] <= 0 {
			delete(seen, path)
		}
	}()

	for _, ing := range r.Ingredients {
		addIngredient(into, ing, scale)
	}

	for _, inc := range r.Includes {
		if seen[inc.Path] > 0 {
			return fmt.Errorf("%s includes %s: %w", path, inc.Path, domain.ErrCircularReference)
		}

		incScale := inc.Scale
		if incScale <= 0 {
			incScale = 1
		}
		err := x.expand(ctx, inc.Path, scale*incScale, into, seen)
		if err == nil {
			continue
		}
		if x.allowPartial && errors.Is(err, domain.ErrNotFound) {
			x.log.Warn("skipping missing recipe %s included by %s", inc.Path, path)
			continue
		}
		return err
	}
	return nil
}

func addIngredient(into *List, ing domain.Ingredient, scale float64) {
	switch {
	case ing.Quantity > 0:
		into.Add(ing.Name, domain.Quantity{Amount: ing.Quantity * scale, Unit: ing.Unit})
	case ing.SizeDescriptor != "":
		into.Add(ing.Name, domain.Quantity{Text: ing.SizeDescriptor, Unit: ing.Unit, IsText: true})
	default:
		into.Add(ing.Name)
	}
}
