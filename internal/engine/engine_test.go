package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/ingredient"
	"github.com/hammamikhairi/ottoshop/internal/logger"
	"github.com/hammamikhairi/ottoshop/internal/recipe"
	"github.com/hammamikhairi/ottoshop/internal/storage"
)

func testRecipes(log *logger.Logger) *recipe.MemorySource {
	return recipe.NewMemorySource(log,
		&domain.Recipe{
			Path: "r1",
			Name: "Pancakes",
			Ingredients: []domain.Ingredient{
				{Name: "flour", Quantity: 100, Unit: "g"},
				{Name: "eggs", Quantity: 2},
			},
		},
		&domain.Recipe{
			Path: "larder",
			Ingredients: []domain.Ingredient{
				{Name: "flour", Quantity: 500, Unit: "g"},
				{Name: "salt", SizeDescriptor: "a pinch"},
				{Name: "pepper", Quantity: 1, Unit: "tsp"},
				{Name: "milk", Quantity: 1, Unit: "l"},
				{Name: "eggs", Quantity: 6},
			},
		},
		&domain.Recipe{
			Path:        "pizza",
			Ingredients: []domain.Ingredient{{Name: "cheese", Quantity: 100, Unit: "g"}},
			Includes:    []domain.Include{{Path: "dough"}},
		},
		&domain.Recipe{
			Path:        "dough",
			Ingredients: []domain.Ingredient{{Name: "flour", Quantity: 300, Unit: "g"}},
		},
	)
}

func setupEngine(t *testing.T, opts ...Option) (*Engine, context.Context) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	store := storage.NewFileStore(t.TempDir(), log)
	eng := New(store, ingredient.NewExtractor(testRecipes(log), log), log, opts...)
	return eng, context.Background()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func ptr[T any](v T) *T { return &v }

func TestAggregateExample(t *testing.T) {
	eng, ctx := setupEngine(t)

	entries := []domain.AggregateEntry{
		{Recipe: "r1", Scale: ptr(2.0), Kind: domain.KindRecipe},
		{Recipe: "ignored", Name: ptr("Paper towels"), Quantity: ptr("1 pack"), Kind: domain.KindCustom},
	}
	got, err := eng.Aggregate(ctx, entries)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	want := &domain.ShoppingList{
		Categories: []domain.Category{
			{Category: "other", Items: []domain.ShoppingItem{
				{Name: "eggs", Quantities: []domain.Quantity{{Amount: 4}}},
				{Name: "flour", Quantities: []domain.Quantity{{Amount: 200, Unit: "g"}}},
			}},
			{Category: domain.CustomCategory, Items: []domain.ShoppingItem{
				{Name: "Paper towels", Quantities: []domain.Quantity{domain.TextQuantity("1 pack")}},
			}},
		},
		PantryItems: []string{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Aggregate() (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	wantJSON := `{"categories":[` +
		`{"category":"other","items":[{"name":"eggs","quantities":[{"value":4}]},{"name":"flour","quantities":[{"value":200,"unit":"g"}]}]},` +
		`{"category":"Custom Items","items":[{"name":"Paper towels","quantities":[{"value":"1 pack"}]}]}` +
		`],"pantry_items":[]}`
	if string(data) != wantJSON {
		t.Errorf("json:\n got %s\nwant %s", data, wantJSON)
	}
}

func TestAggregateIdempotent(t *testing.T) {
	aislePath := writeFile(t, "aisle.conf", "[baking]\nflour\n\n[dairy]\nmilk\neggs\n")
	eng, ctx := setupEngine(t, WithAislePath(aislePath))

	entries := []domain.AggregateEntry{
		{Recipe: "r1"},
		{Recipe: "larder", Scale: ptr(0.5)},
		{Recipe: "x", Kind: domain.KindCustom},
	}
	first, err := eng.Aggregate(ctx, entries)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := eng.Aggregate(ctx, entries)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("aggregation is not idempotent (-first +second):\n%s", diff)
	}

	var names []string
	for _, c := range first.Categories {
		names = append(names, c.Category)
	}
	if diff := cmp.Diff([]string{"baking", "dairy", "other", domain.CustomCategory}, names); diff != "" {
		t.Errorf("category order (-want +got):\n%s", diff)
	}
}

func TestAggregatePantry(t *testing.T) {
	pantryPath := writeFile(t, "pantry.conf", `
[cupboard]
flour = "0"
salt = "unlim"
pepper = {}
milk = "2%l"
`)
	eng, ctx := setupEngine(t, WithPantryPath(pantryPath))

	got, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "larder"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	if diff := cmp.Diff([]string{"salt", "pepper", "milk"}, got.PantryItems); diff != "" {
		t.Errorf("pantry items (-want +got):\n%s", diff)
	}

	want := []domain.Category{
		{Category: "other", Items: []domain.ShoppingItem{
			{Name: "eggs", Quantities: []domain.Quantity{{Amount: 6}}},
			{Name: "flour", Quantities: []domain.Quantity{{Amount: 500, Unit: "g"}}},
		}},
	}
	if diff := cmp.Diff(want, got.Categories); diff != "" {
		t.Errorf("categories (-want +got):\n%s", diff)
	}
}

func TestAggregateUnreadableConfig(t *testing.T) {
	dir := t.TempDir()
	eng, ctx := setupEngine(t,
		WithAislePath(filepath.Join(dir, "missing-aisle.conf")),
		WithPantryPath(filepath.Join(dir, "missing-pantry.conf")),
	)

	got, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "r1"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if got.PantryItems == nil || len(got.PantryItems) != 0 {
		t.Errorf("pantry items = %#v, want empty", got.PantryItems)
	}
	if len(got.Categories) != 1 || got.Categories[0].Category != "other" {
		t.Errorf("categories = %+v", got.Categories)
	}
}

func TestAggregateBrokenPantryIsNoPantry(t *testing.T) {
	pantryPath := writeFile(t, "pantry.conf", "[cupboard\nflour = ")
	eng, ctx := setupEngine(t, WithPantryPath(pantryPath))

	got, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "r1"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if len(got.PantryItems) != 0 {
		t.Errorf("pantry items = %v", got.PantryItems)
	}
	if n := len(got.Categories[0].Items); n != 2 {
		t.Errorf("expected nothing subtracted, got %d items", n)
	}
}

func TestAggregateCustomItems(t *testing.T) {
	eng, ctx := setupEngine(t)

	entries := []domain.AggregateEntry{
		{Recipe: "custom:a", Name: ptr("Paper towels"), Quantity: ptr("1 pack"), Kind: domain.KindCustom},
		{Recipe: "r1"},
		{Recipe: "custom:b", Name: ptr("Paper towels"), Kind: domain.KindCustom},
		{Recipe: "Batteries", Kind: domain.KindCustom},
	}
	got, err := eng.Aggregate(ctx, entries)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}

	last := got.Categories[len(got.Categories)-1]
	want := domain.Category{Category: domain.CustomCategory, Items: []domain.ShoppingItem{
		{Name: "Paper towels", Quantities: []domain.Quantity{domain.TextQuantity("1 pack")}},
		{Name: "Paper towels", Quantities: []domain.Quantity{}},
		{Name: "Batteries", Quantities: []domain.Quantity{}},
	}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("custom category (-want +got):\n%s", diff)
	}
	for _, c := range got.Categories[:len(got.Categories)-1] {
		for _, item := range c.Items {
			if item.Name == "Paper towels" || item.Name == "Batteries" {
				t.Errorf("custom item %q leaked into %q", item.Name, c.Category)
			}
		}
	}
}

func TestAggregateEmptyCustomQuantity(t *testing.T) {
	eng, ctx := setupEngine(t)

	got, err := eng.Aggregate(ctx, []domain.AggregateEntry{
		{Recipe: "custom:bags", Name: ptr("Bags"), Quantity: ptr(""), Kind: domain.KindCustom},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"categories":[{"category":"Custom Items","items":[{"name":"Bags","quantities":[{"value":""}]}]}],"pantry_items":[]}`
	if string(data) != want {
		t.Errorf("json:\n got %s\nwant %s", data, want)
	}
}

func TestAggregateRepeatedRecipe(t *testing.T) {
	eng, ctx := setupEngine(t)

	twice, err := eng.Aggregate(ctx, []domain.AggregateEntry{
		{Recipe: "pizza", Scale: ptr(1.0)},
		{Recipe: "pizza", Scale: ptr(1.0)},
	})
	if err != nil {
		t.Fatalf("Aggregate twice: %v", err)
	}
	doubled, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "pizza", Scale: ptr(2.0)}})
	if err != nil {
		t.Fatalf("Aggregate doubled: %v", err)
	}

	want := []domain.Category{{Category: "other", Items: []domain.ShoppingItem{
		{Name: "cheese", Quantities: []domain.Quantity{{Amount: 200, Unit: "g"}}},
		{Name: "flour", Quantities: []domain.Quantity{{Amount: 600, Unit: "g"}}},
	}}}
	if diff := cmp.Diff(want, doubled.Categories); diff != "" {
		t.Errorf("pizza:2 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(doubled, twice); diff != "" {
		t.Errorf("pizza twice differs from pizza:2 (-pizza:2 +twice):\n%s", diff)
	}
}

func TestAggregateNoCustomCategory(t *testing.T) {
	eng, ctx := setupEngine(t)
	got, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "r1"}})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	for _, c := range got.Categories {
		if c.Category == domain.CustomCategory {
			t.Fatal("unexpected Custom Items category")
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	eng, ctx := setupEngine(t)
	got, err := eng.Aggregate(ctx, nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	data, _ := json.Marshal(got)
	if string(data) != `{"categories":[],"pantry_items":[]}` {
		t.Errorf("json = %s", data)
	}
}

func TestAggregateUnknownRecipe(t *testing.T) {
	eng, ctx := setupEngine(t)
	_, err := eng.Aggregate(ctx, []domain.AggregateEntry{{Recipe: "r1"}, {Recipe: "nope"}})
	if !errors.Is(err, domain.ErrClientInput) {
		t.Fatalf("err = %v, want ErrClientInput", err)
	}
	if !IsClientError(err) {
		t.Error("IsClientError should be true")
	}
}

type recordingExtractor struct {
	refs []string
}

func (r *recordingExtractor) Extract(_ context.Context, ref string, _ *ingredient.List, _ ingredient.Seen) error {
	r.refs = append(r.refs, ref)
	return nil
}

func TestAggregateScaledRefs(t *testing.T) {
	rec := &recordingExtractor{}
	log := logger.New(logger.LevelOff, nil)
	eng := New(storage.NewMemoryStore(log), rec, log)

	_, err := eng.Aggregate(context.Background(), []domain.AggregateEntry{
		{Recipe: "a", Scale: ptr(2.0)},
		{Recipe: "b", Scale: ptr(0.5)},
		{Recipe: "c"},
		{Recipe: "d", Kind: domain.KindCustom, Scale: ptr(3.0)},
	})
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if diff := cmp.Diff([]string{"a:2", "b:0.5", "c"}, rec.refs); diff != "" {
		t.Errorf("refs (-want +got):\n%s", diff)
	}
}

func TestAddReference(t *testing.T) {
	fixed := time.UnixMilli(1700000000123)

	tests := []struct {
		name    string
		req     domain.AddRequest
		want    domain.ReferenceItem
		wantErr bool
	}{
		{
			name: "recipe with path",
			req:  domain.AddRequest{Path: " recipes/pie ", Name: "Pie", Scale: ptr(2.0)},
			want: domain.ReferenceItem{Path: "recipes/pie", Name: "Pie", Scale: 2},
		},
		{
			name: "custom without path",
			req:  domain.AddRequest{Name: "Bread Rolls!", Kind: domain.KindCustom, Quantity: ptr("2 bags")},
			want: domain.ReferenceItem{Path: "custom:bread-rolls-1700000000123", Name: "Bread Rolls!", Scale: 1, Kind: domain.KindCustom, Quantity: ptr("2 bags")},
		},
		{
			name: "custom keeps given path",
			req:  domain.AddRequest{Path: "custom:mine", Name: "Mine", Kind: domain.KindCustom},
			want: domain.ReferenceItem{Path: "custom:mine", Name: "Mine", Scale: 1, Kind: domain.KindCustom},
		},
		{
			name: "recipe without path falls back to name",
			req:  domain.AddRequest{Name: "Soup"},
			want: domain.ReferenceItem{Path: "custom:soup-1700000000123", Name: "Soup", Scale: 1},
		},
		{
			name: "blank quantity dropped",
			req:  domain.AddRequest{Path: "p", Name: "P", Quantity: ptr("  ")},
			want: domain.ReferenceItem{Path: "p", Name: "P", Scale: 1},
		},
		{name: "no path no name", req: domain.AddRequest{Name: "  "}, wantErr: true},
		{name: "custom no path no name", req: domain.AddRequest{Kind: domain.KindCustom}, wantErr: true},
		{name: "tab in name", req: domain.AddRequest{Path: "p", Name: "a\tb"}, wantErr: true},
		{name: "newline in path", req: domain.AddRequest{Path: "p\nq", Name: "x"}, wantErr: true},
		{name: "tab in quantity", req: domain.AddRequest{Path: "p", Name: "x", Quantity: ptr("1\t2")}, wantErr: true},
		{name: "zero scale", req: domain.AddRequest{Path: "p", Name: "x", Scale: ptr(0.0)}, wantErr: true},
		{name: "path read as comment", req: domain.AddRequest{Path: "#3 soup", Name: "Soup"}, wantErr: true},
		{name: "padded comment path", req: domain.AddRequest{Path: "  #soup", Name: "Soup"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, ctx := setupEngine(t, WithClock(func() time.Time { return fixed }))

			got, err := eng.AddReference(ctx, tt.req)
			if tt.wantErr {
				if !errors.Is(err, domain.ErrClientInput) {
					t.Fatalf("err = %v, want ErrClientInput", err)
				}
				items, _ := eng.ListReferences(ctx)
				if len(items) != 0 {
					t.Fatalf("rejected request was stored: %+v", items)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("AddReference() (-want +got):\n%s", diff)
			}

			items, err := eng.ListReferences(ctx)
			if err != nil {
				t.Fatalf("ListReferences: %v", err)
			}
			if diff := cmp.Diff([]domain.ReferenceItem{tt.want}, items); diff != "" {
				t.Errorf("stored (-want +got):\n%s", diff)
			}
		})
	}
}

func TestAddCustomPathPattern(t *testing.T) {
	eng, ctx := setupEngine(t)
	item, err := eng.AddReference(ctx, domain.AddRequest{Name: "Bread Rolls!", Kind: domain.KindCustom})
	if err != nil {
		t.Fatalf("AddReference: %v", err)
	}
	if !regexp.MustCompile(`^custom:bread-rolls-\d+$`).MatchString(item.Path) {
		t.Errorf("path = %q", item.Path)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Bread Rolls!":         "bread-rolls",
		"  Crème   Fraîche  ": "crème-fraîche",
		"half-and-half":        "half-and-half",
		"50% off!!":            "50-off",
		"":                     "",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRemoveAndClearReferences(t *testing.T) {
	eng, ctx := setupEngine(t)

	for _, name := range []string{"A", "B", "A2"} {
		path := "p"
		if name == "B" {
			path = "q"
		}
		if _, err := eng.AddReference(ctx, domain.AddRequest{Path: path, Name: name}); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
	}

	if err := eng.RemoveReference(ctx, "p"); err != nil {
		t.Fatalf("RemoveReference: %v", err)
	}
	items, _ := eng.ListReferences(ctx)
	var names []string
	for _, it := range items {
		names = append(names, it.Name)
	}
	if diff := cmp.Diff([]string{"B", "A2"}, names); diff != "" {
		t.Errorf("after remove (-want +got):\n%s", diff)
	}

	if err := eng.RemoveReference(ctx, "missing"); err != nil {
		t.Errorf("removing a missing path: %v", err)
	}

	if err := eng.ClearReferences(ctx); err != nil {
		t.Fatalf("ClearReferences: %v", err)
	}
	items, _ = eng.ListReferences(ctx)
	if len(items) != 0 {
		t.Errorf("after clear: %+v", items)
	}
}

type failingStore struct {
	storage.MemoryStore
}

func (*failingStore) Add(context.Context, domain.ReferenceItem) error {
	return domain.ErrStorage
}

func TestAddReferenceStorageError(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	eng := New(&failingStore{}, &recordingExtractor{}, log)

	_, err := eng.AddReference(context.Background(), domain.AddRequest{Path: "p", Name: "x"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("err = %v, want ErrStorage", err)
	}
	if IsClientError(err) {
		t.Error("storage failure reported as client error")
	}
}
