// Package engine aggregates shopping list entries into a categorized list
// and manages the stored references.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/hammamikhairi/ottoshop/internal/aisle"
	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/ingredient"
	"github.com/hammamikhairi/ottoshop/internal/logger"
	"github.com/hammamikhairi/ottoshop/internal/pantry"
)

// Extractor merges the ingredients of a scaled recipe reference into a
// list. seen is shared by every call of one aggregation and guards
// against include cycles.
type Extractor interface {
	Extract(ctx context.Context, ref string, into *ingredient.List, seen ingredient.Seen) error
}

// Option configures the engine.
type Option func(*Engine)

// WithAislePath sets the aisle configuration file. It is re-read on every
// aggregation.
func WithAislePath(path string) Option {
	return func(e *Engine) {
		e.aislePath = path
	}
}

// WithPantryPath sets the pantry file. It is re-read on every aggregation.
func WithPantryPath(path string) Option {
	return func(e *Engine) {
		e.pantryPath = path
	}
}

// WithClock overrides the time source used for generated paths.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine turns references into shopping lists. It holds no state between
// calls: the store, the aisle file and the pantry file are read fresh each
// time.
type Engine struct {
	store      domain.ReferenceStore
	extractor  Extractor
	log        *logger.Logger
	aislePath  string
	pantryPath string
	now        func() time.Time
	readFile   func(string) ([]byte, error)
}

// New creates an engine with the given dependencies and options.
func New(store domain.ReferenceStore, extractor Extractor, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		extractor: extractor,
		log:       log,
		now:       time.Now,
		readFile:  os.ReadFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Aggregate merges the recipe entries into one categorized list, takes
// the pantry into account and appends custom entries as a trailing
// "Custom Items" category. Any recipe that fails to extract fails the
// whole call with domain.ErrClientInput.
func (e *Engine) Aggregate(ctx context.Context, entries []domain.AggregateEntry) (*domain.ShoppingList, error) {
	list := ingredient.NewList()
	seen := ingredient.Seen{}

	for _, entry := range entries {
		if entry.Kind == domain.KindCustom {
			continue
		}
		ref := entry.Recipe
		if entry.Scale != nil {
			ref = entry.Recipe + ":" + domain.FormatAmount(*entry.Scale)
		}
		if err := e.extractor.Extract(ctx, ref, list, seen); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			e.log.Error("processing recipe %s: %v", ref, err)
			return nil, fmt.Errorf("%w: %w", domain.ErrClientInput, err)
		}
	}

	aisleCfg := e.loadAisle()
	pantryCfg := e.loadPantry()

	list = list.UseCommonNames(aisleCfg)

	pantryItems := []string{}
	if pantryCfg != nil {
		for _, name := range list.Names() {
			if inPantry(pantryCfg, name) {
				pantryItems = append(pantryItems, name)
			}
		}
		list = list.SubtractPantry(pantryCfg)
	}

	categories := []domain.Category{}
	for _, group := range list.Categorize(aisleCfg) {
		if len(group.Items) == 0 {
			continue
		}
		categories = append(categories, domain.Category{Category: group.Name, Items: group.Items})
	}

	if custom := customItems(entries); len(custom) > 0 {
		categories = append(categories, domain.Category{Category: domain.CustomCategory, Items: custom})
	}

	e.log.Debug("aggregated %d entries into %d categories (%d in pantry)", len(entries), len(categories), len(pantryItems))
	return &domain.ShoppingList{Categories: categories, PantryItems: pantryItems}, nil
}

// inPantry reports whether the pantry holds some of the ingredient: an
// entry without a quantity, an unlimited one, or a positive amount.
func inPantry(p *pantry.Config, name string) bool {
	_, item, ok := p.FindIngredient(name)
	if !ok {
		return false
	}
	q, has := item.QuantityString()
	if !has || ingredient.IsUnlimited(q) {
		return true
	}
	v, _, ok := item.ParsedQuantity()
	return ok && v > 0
}

func customItems(entries []domain.AggregateEntry) []domain.ShoppingItem {
	var items []domain.ShoppingItem
	for _, entry := range entries {
		if entry.Kind != domain.KindCustom {
			continue
		}
		name := entry.Recipe
		if entry.Name != nil {
			name = *entry.Name
		}
		quantities := []domain.Quantity{}
		if entry.Quantity != nil {
			quantities = append(quantities, domain.TextQuantity(*entry.Quantity))
		}
		items = append(items, domain.ShoppingItem{Name: name, Quantities: quantities})
	}
	return items
}

func (e *Engine) loadAisle() *aisle.Config {
	text, ok := e.readConfig("aisle", e.aislePath)
	if !ok {
		return nil
	}
	cfg, warnings := aisle.ParseLenient(text)
	for _, w := range warnings {
		e.log.Warn("aisle configuration: %s", w)
	}
	return cfg
}

func (e *Engine) loadPantry() *pantry.Config {
	text, ok := e.readConfig("pantry", e.pantryPath)
	if !ok {
		return nil
	}
	cfg, warnings := pantry.ParseLenient(text)
	for _, w := range warnings {
		e.log.Warn("pantry configuration: %s", w)
	}
	return cfg
}

func (e *Engine) readConfig(kind, path string) (string, bool) {
	if path == "" {
		e.log.Debug("no %s file configured", kind)
		return "", false
	}
	data, err := e.readFile(path)
	if err != nil {
		e.log.Warn("reading %s file %s: %v", kind, path, err)
		return "", false
	}
	e.log.Debug("loaded %s file from %s", kind, path)
	return string(data), true
}

// ListReferences returns the stored references in insertion order.
func (e *Engine) ListReferences(ctx context.Context) ([]domain.ReferenceItem, error) {
	return e.store.Load(ctx)
}

// AddReference validates req, fills in defaults and appends it to the
// store. A custom item without a path gets a generated one; so does a
// recipe item without a path, as long as it has a name.
//
// Two rules are stricter than what the store file could hold: an item
// with neither a path nor a non-blank name is rejected, custom or not,
// and a given scale must be positive and finite. Paths starting with '#'
// are rejected because the store reads such lines as comments. All
// rejections wrap domain.ErrClientInput.
func (e *Engine) AddReference(ctx context.Context, req domain.AddRequest) (domain.ReferenceItem, error) {
	fields := [][2]string{{"path", req.Path}, {"name", req.Name}}
	if req.Quantity != nil {
		fields = append(fields, [2]string{"quantity", *req.Quantity})
	}
	for _, f := range fields {
		// The store file is tab separated, one record per line.
		if strings.ContainsAny(f[1], "\t\r\n") {
			return domain.ReferenceItem{}, fmt.Errorf("%w: %s must not contain tabs or line breaks", domain.ErrClientInput, f[0])
		}
	}

	path := strings.TrimSpace(req.Path)
	if strings.HasPrefix(path, "#") {
		return domain.ReferenceItem{}, fmt.Errorf("%w: path must not start with '#'", domain.ErrClientInput)
	}
	if path == "" {
		if strings.TrimSpace(req.Name) == "" {
			return domain.ReferenceItem{}, fmt.Errorf("%w: name is required when no path is given", domain.ErrClientInput)
		}
		path = generateCustomPath(req.Name, e.now())
	}

	scale := 1.0
	if req.Scale != nil {
		scale = *req.Scale
		if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
			return domain.ReferenceItem{}, fmt.Errorf("%w: scale must be a positive number", domain.ErrClientInput)
		}
	}

	var quantity *string
	if req.Quantity != nil && strings.TrimSpace(*req.Quantity) != "" {
		q := strings.TrimSpace(*req.Quantity)
		quantity = &q
	}

	item := domain.ReferenceItem{
		Path:     path,
		Name:     req.Name,
		Scale:    scale,
		Kind:     req.Kind,
		Quantity: quantity,
	}
	if err := e.store.Add(ctx, item); err != nil {
		e.log.Error("adding %s to shopping list: %v", path, err)
		return domain.ReferenceItem{}, err
	}
	e.log.Info("added %s %q to shopping list", item.Kind, path)
	return item, nil
}

// RemoveReference drops the first stored reference with the given path.
// A path that is not stored is not an error.
func (e *Engine) RemoveReference(ctx context.Context, path string) error {
	if err := e.store.Remove(ctx, path); err != nil {
		e.log.Error("removing %s from shopping list: %v", path, err)
		return err
	}
	e.log.Info("removed %q from shopping list", path)
	return nil
}

// ClearReferences empties the store.
func (e *Engine) ClearReferences(ctx context.Context) error {
	if err := e.store.Clear(ctx); err != nil {
		e.log.Error("clearing shopping list: %v", err)
		return err
	}
	e.log.Info("cleared shopping list")
	return nil
}

// IsClientError reports whether err was caused by the caller's input.
func IsClientError(err error) bool {
	return errors.Is(err, domain.ErrClientInput)
}
