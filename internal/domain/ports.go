package domain

import "context"

// RecipeSource provides recipes by path. Implementations can be in-memory
// or backed by recipe files under a base directory.
type RecipeSource interface {
	List(ctx context.Context) ([]RecipeSummary, error)
	Get(ctx context.Context, path string) (*Recipe, error)
}

// ReferenceStore persists the user's list of references. It is an ordered
// sequence, not a set: Add never merges and Remove drops the first match only.
type ReferenceStore interface {
	Load(ctx context.Context) ([]ReferenceItem, error)
	Save(ctx context.Context, items []ReferenceItem) error
	Add(ctx context.Context, item ReferenceItem) error
	Remove(ctx context.Context, path string) error
	Clear(ctx context.Context) error
}
