// Package catalog is the operator surface over the meal catalog: filtered listing,
// homogeneous batch creation, content edits, deletion and relocation between leaves.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services/capacity"
	"menupick-admin-worker/services/filter"
	"menupick-admin-worker/services/ingest"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmptyPatch        = errors.New("patch has no fields")
	ErrMixedLeaves       = errors.New("batch items target more than one leaf")
	ErrUnknownLeaf       = errors.New("leaf is not part of the taxonomy")
	ErrNegativeNutrition = ingest.ErrNegativeNutrition
)

type Service struct {
	table   *taxonomy.Table
	checker *capacity.Checker
	catalog store.Catalog
	engine  *ingest.Engine
	logger  *logrus.Entry
}

func NewService(table *taxonomy.Table, checker *capacity.Checker, catalog store.Catalog, engine *ingest.Engine, logger *logrus.Entry) *Service {
	return &Service{table: table, checker: checker, catalog: catalog, engine: engine, logger: logger}
}

func (s *Service) path(leaf taxonomy.Leaf) store.Path {
	return store.LeafPath(s.catalog.Root(), leaf)
}

// List 讀整份 catalog 後在記憶體裡篩選
func (s *Service) List(ctx context.Context, criteria filter.Criteria) ([]models.MealItem, error) {
	items, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return criteria.Apply(items), nil
}

func (s *Service) Capacity(ctx context.Context, leaf taxonomy.Leaf) (capacity.Result, error) {
	if !s.table.Contains(leaf) {
		return capacity.Result{}, ErrUnknownLeaf
	}
	items, err := s.catalog.List(ctx, s.path(leaf))
	if err != nil {
		return capacity.Result{}, err
	}
	return s.checker.Check(items, leaf), nil
}

func (s *Service) Create(ctx context.Context, item models.MealItem) (string, error) {
	return s.engine.Create(ctx, item)
}

// CreateBatch accepts only items of a single leaf.
func (s *Service) CreateBatch(ctx context.Context, items []models.MealItem) (ingest.Counts, error) {
	var first *taxonomy.Leaf
	for _, item := range items {
		leaf := taxonomy.Leaf{
			Category:    strings.TrimSpace(item.Category),
			MessType:    strings.TrimSpace(item.MessType),
			Subcategory: strings.TrimSpace(item.Subcategory),
		}
		if first == nil {
			first = &leaf
			continue
		}
		if leaf != *first {
			return nil, ErrMixedLeaves
		}
	}
	return s.engine.Ingest(ctx, items)
}

func (s *Service) Update(ctx context.Context, leaf taxonomy.Leaf, id string, patch structs.MealItemPatch) error {
	if patch.Empty() {
		return ErrEmptyPatch
	}
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return ingest.ErrEmptyName
	}
	if n := patch.Nutrition; n != nil && (n.Calories < 0 || n.Protein < 0 || n.Carbs < 0 || n.Fat < 0) {
		return ErrNegativeNutrition
	}
	return s.catalog.Update(ctx, s.path(leaf), id, patch)
}

func (s *Service) Delete(ctx context.Context, leaf taxonomy.Leaf, id string) error {
	if err := s.catalog.Delete(ctx, s.path(leaf), id); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"task": "delete", "leaf": leaf.String(), "item_id": id}).Info("品項已刪除")
	return nil
}

// Relocate moves an item to another leaf by creating it there first and then deleting the
// original. The target leaf goes through the same capacity check as any ingestion.
func (s *Service) Relocate(ctx context.Context, from taxonomy.Leaf, id string, to taxonomy.Leaf) (string, error) {
	items, err := s.catalog.List(ctx, s.path(from))
	if err != nil {
		return "", err
	}
	var found *models.MealItem
	for i := range items {
		if items[i].ItemID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return "", store.ErrNotFound
	}
	if from == to {
		return id, nil
	}

	moved := *found
	moved.ItemID = ""
	moved.MessType = to.MessType
	moved.Category = to.Category
	moved.Subcategory = to.Subcategory
	newID, err := s.engine.Create(ctx, moved)
	if err != nil {
		return "", err
	}

	if err := s.catalog.Delete(ctx, s.path(from), id); err != nil {
		return newID, fmt.Errorf("item copied to %s as %s but the original was not removed: %w", to, newID, err)
	}
	s.logger.WithFields(logrus.Fields{"task": "relocate", "from": from.String(), "to": to.String(), "item_id": id, "new_item_id": newID}).Info("品項已搬移")
	return newID, nil
}
