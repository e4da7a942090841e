// Package recipe provides recipe source implementations.
package recipe

import (
	"context"
	"sort"
	"sync"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*MemorySource)(nil)

// MemorySource holds recipes in memory, keyed by path. Safe for concurrent use.
type MemorySource struct {
	mu      sync.RWMutex
	recipes map[string]*domain.Recipe
	log     *logger.Logger
}

// NewMemorySource creates a recipe source holding the given recipes.
// Each recipe's Path is its key.
func NewMemorySource(log *logger.Logger, recipes ...*domain.Recipe) *MemorySource {
	src := &MemorySource{
		recipes: make(map[string]*domain.Recipe),
		log:     log,
	}
	for _, r := range recipes {
		src.recipes[r.Path] = r
	}
	log.Debug("memory source holds %d recipes", len(recipes))
	return src
}

// Put adds or replaces a recipe.
func (s *MemorySource) Put(r *domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipes[r.Path] = r
}

// List returns summaries of all recipes, sorted by path.
func (s *MemorySource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.RecipeSummary, 0, len(s.recipes))
	for _, r := range s.recipes {
		out = append(out, domain.RecipeSummary{Path: r.Path, Name: r.Name, Tags: r.Tags})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Get returns a recipe by path.
func (s *MemorySource) Get(ctx context.Context, path string) (*domain.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[path]
	if !ok {
		s.log.Debug("recipe not found: %s", path)
		return nil, domain.ErrNotFound
	}
	return r, nil
}
