package recipe

import (
	"context"
	"testing"

	"github.com/hammamikhairi/ottoshop/internal/domain"
	"github.com/hammamikhairi/ottoshop/internal/logger"
)

func TestMemorySourceGet(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log,
		&domain.Recipe{Path: "pancakes", Name: "Pancakes"},
		&domain.Recipe{Path: "sauces/caramel", Name: "Caramel"},
	)
	ctx := context.Background()

	tests := []struct {
		path    string
		wantErr error
	}{
		{"pancakes", nil},
		{"sauces/caramel", nil},
		{"nonexistent", domain.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			r, err := src.Get(ctx, tt.path)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Path != tt.path {
				t.Fatalf("expected path %s, got %s", tt.path, r.Path)
			}
		})
	}
}

func TestMemorySourceList(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	src := NewMemorySource(log, &domain.Recipe{Path: "b"}, &domain.Recipe{Path: "a"})
	src.Put(&domain.Recipe{Path: "c"})

	list, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 || list[0].Path != "a" || list[2].Path != "c" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}
