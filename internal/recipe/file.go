package recipe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

// Compile-time interface check.
var _ domain.RecipeSource = (*FileSource)(nil)

// Extensions tried, in order, when a reference names a recipe without one.
var Extensions = []string{".yaml", ".yml"}

// FileSource reads YAML recipe documents from a base directory. Nothing is
// cached: every Get reads the file again.
type FileSource struct {
	baseDir string
	log     *logger.Logger
}

// NewFileSource creates a source rooted at baseDir.
func NewFileSource(baseDir string, log *logger.Logger) *FileSource {
	return &FileSource{baseDir: baseDir, log: log}
}

// Get loads the recipe at path, relative to the base directory. The path
// is tried as given, then with each of Extensions appended.
func (s *FileSource) Get(ctx context.Context, path string) (*domain.Recipe, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	for _, candidate := range s.candidates(full) {
		info, err := os.Stat(candidate)
		if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
			continue
		}
		data, err := os.ReadFile(candidate)
		if err != nil {
			return nil, fmt.Errorf("reading recipe %s: %w", path, err)
		}

		var r domain.Recipe
		if err := yaml.Unmarshal(data, &r); err != nil {
			return nil, fmt.Errorf("%w: parsing recipe %s: %w", domain.ErrClientInput, path, err)
		}
		r.Path = path
		if r.Name == "" {
			r.Name = strings.TrimSuffix(filepath.Base(candidate), filepath.Ext(candidate))
		}
		s.log.Debug("loaded recipe %s from %s (%d ingredients)", path, candidate, len(r.Ingredients))
		return &r, nil
	}

	return nil, fmt.Errorf("recipe %s: %w", path, domain.ErrNotFound)
}

// List walks the base directory for recipe documents.
func (s *FileSource) List(ctx context.Context) ([]domain.RecipeSummary, error) {
	var out []domain.RecipeSummary
	err := filepath.WalkDir(s.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != s.baseDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasRecipeExt(p) {
			return nil
		}
		rel, err := filepath.Rel(s.baseDir, p)
		if err != nil {
			return err
		}
		ref := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
		r, err := s.Get(ctx, ref)
		if err != nil {
			s.log.Warn("skipping recipe %s: %v", rel, err)
			return nil
		}
		out = append(out, domain.RecipeSummary{Path: ref, Name: r.Name, Tags: r.Tags})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing recipes: %w", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// resolve joins path onto the base directory and refuses anything that
// would land outside it.
func (s *FileSource) resolve(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("%w: empty recipe reference", domain.ErrClientInput)
	}
	if filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: recipe reference %q must be relative", domain.ErrClientInput, path)
	}
	full := filepath.Join(s.baseDir, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.baseDir, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: recipe reference %q escapes the base directory", domain.ErrClientInput, path)
	}
	return full, nil
}

func (s *FileSource) candidates(full string) []string {
	if hasRecipeExt(full) {
		return []string{full}
	}
	out := make([]string, 0, len(Extensions)+1)
	out = append(out, full)
	for _, ext := range Extensions {
		out = append(out, full+ext)
	}
	return out
}

func hasRecipeExt(p string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}
