package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"menupick-admin-worker/models"
	"menupick-admin-worker/services/capacity"
	"menupick-admin-worker/services/metrics"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	statusCapacityExceeded = "capacity_exceeded"
	statusPartial          = "partial"
)

// Counts is the number of items committed per leaf.
type Counts map[taxonomy.Leaf]int

func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// Leaves 依字串排序，輸出用
func (c Counts) Leaves() []taxonomy.Leaf {
	leaves := make([]taxonomy.Leaf, 0, len(c))
	for leaf := range c {
		leaves = append(leaves, leaf)
	}
	sort.Slice(leaves, func(i, j int) bool { return leaves[i].String() < leaves[j].String() })
	return leaves
}

func (c Counts) LeafCounts() []structs.LeafCount {
	out := make([]structs.LeafCount, 0, len(c))
	for _, leaf := range c.Leaves() {
		out = append(out, structs.LeafCount{
			Category:    leaf.Category,
			MessType:    leaf.MessType,
			Subcategory: leaf.Subcategory,
			Count:       c[leaf],
		})
	}
	return out
}

func (c Counts) clone() Counts {
	out := make(Counts, len(c))
	for leaf, n := range c {
		out[leaf] = n
	}
	return out
}

type Engine struct {
	table   *taxonomy.Table
	checker *capacity.Checker
	catalog store.Catalog
	logger  *logrus.Entry
	metrics *metrics.Metrics
}

func New(table *taxonomy.Table, checker *capacity.Checker, catalog store.Catalog, logger *logrus.Entry, m *metrics.Metrics) *Engine {
	return &Engine{table: table, checker: checker, catalog: catalog, logger: logger, metrics: m}
}

type group struct {
	leaf  taxonomy.Leaf
	items []models.MealItem
}

// Ingest commits candidates one atomic group per leaf, groups in order of first appearance.
func (e *Engine) Ingest(ctx context.Context, candidates []models.MealItem) (Counts, error) {
	counts, _, err := e.ingest(ctx, candidates)
	return counts, err
}

// Create 單筆新增走同一條路徑
func (e *Engine) Create(ctx context.Context, item models.MealItem) (string, error) {
	if !item.HasName() {
		return "", ErrEmptyName
	}
	_, ids, err := e.ingest(ctx, []models.MealItem{item})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (e *Engine) ingest(ctx context.Context, candidates []models.MealItem) (Counts, []string, error) {
	accepted := make([]models.MealItem, 0, len(candidates))
	for _, candidate := range candidates {
		if !candidate.HasName() {
			continue
		}
		accepted = append(accepted, candidate)
	}
	skipped := len(candidates) - len(accepted)
	e.metrics.RecordSkipped(skipped)

	counts := Counts{}
	if len(accepted) == 0 {
		return counts, nil, nil
	}

	log := e.logger.WithFields(logrus.Fields{"task": "ingest", "candidates": len(candidates), "skipped": skipped})

	for _, candidate := range accepted {
		if candidate.HasNegativeNutrition() {
			e.metrics.RecordIngestRun(metrics.StatusError)
			log.WithField("name", candidate.Name).Warn("營養數值為負")
			return nil, nil, fmt.Errorf("%w: %q", ErrNegativeNutrition, strings.TrimSpace(candidate.Name))
		}
	}

	if err := e.precheck(ctx, accepted); err != nil {
		var exceeded *CapacityExceededError
		if errors.As(err, &exceeded) {
			e.rejected(log, exceeded)
		} else {
			e.metrics.RecordIngestRun(metrics.StatusError)
			log.WithError(err).Error("讀取 catalog 失敗")
		}
		return nil, nil, err
	}

	var ids []string
	for i, g := range groupByLeaf(accepted) {
		committed, err := e.commit(ctx, g)
		if err != nil {
			var full *store.LeafFullError
			if i == 0 {
				if errors.As(err, &full) {
					exceeded := &CapacityExceededError{Leaf: g.leaf, MaxAllowed: full.MaxAllowed}
					e.rejected(log, exceeded)
					return nil, nil, exceeded
				}
				e.metrics.RecordIngestRun(metrics.StatusError)
				log.WithError(err).WithField("leaf", g.leaf.String()).Error("寫入失敗")
				return nil, nil, err
			}
			e.metrics.RecordIngestRun(statusPartial)
			e.metrics.RecordPartialFailure()
			log.WithError(err).WithFields(logrus.Fields{"leaf": g.leaf.String(), "committed": counts.Total()}).Error("部分寫入失敗")
			return nil, nil, &PartialIngestionFailure{CommittedLeaves: counts.clone(), FailedLeaf: g.leaf, Cause: err}
		}
		counts[g.leaf] += len(committed)
		ids = append(ids, committed...)
		e.metrics.RecordCommitted(g.leaf.MessType, g.leaf.Category, g.leaf.Subcategory, len(committed))
	}

	e.metrics.RecordIngestRun(metrics.StatusSuccess)
	log.WithField("committed", counts.Total()).Info("批次寫入完成")
	return counts, ids, nil
}

// precheck 每個 candidate 依序檢查，同一次呼叫已接受的數量也算進去
func (e *Engine) precheck(ctx context.Context, candidates []models.MealItem) error {
	snapshots := make(map[taxonomy.Leaf][]models.MealItem)
	pending := make(map[taxonomy.Leaf]int)
	root := e.catalog.Root()

	for _, candidate := range candidates {
		leaf := leafOf(candidate)
		snapshot, ok := snapshots[leaf]
		// 上限為 0 的 leaf 不需要讀 catalog
		if !ok && e.table.MaxItemsFor(leaf.Category, leaf.MessType, leaf.Subcategory) > 0 {
			items, err := e.catalog.List(ctx, store.LeafPath(root, leaf))
			if err != nil {
				return err
			}
			snapshot = items
			snapshots[leaf] = items
		}
		result := e.checker.CheckPending(snapshot, leaf, pending[leaf])
		if result.HasReachedLimit {
			return &CapacityExceededError{Leaf: leaf, MaxAllowed: result.MaxAllowed}
		}
		pending[leaf]++
	}
	return nil
}

func (e *Engine) commit(ctx context.Context, g group) ([]string, error) {
	path := store.LeafPath(e.catalog.Root(), g.leaf)
	if capped, ok := e.catalog.(store.CappedBatchCreator); ok {
		limit := e.table.MaxItemsFor(g.leaf.Category, g.leaf.MessType, g.leaf.Subcategory)
		return capped.BatchCreateCapped(ctx, path, g.items, limit)
	}
	return e.catalog.BatchCreate(ctx, path, g.items)
}

func (e *Engine) rejected(log *logrus.Entry, exceeded *CapacityExceededError) {
	e.metrics.RecordIngestRun(statusCapacityExceeded)
	e.metrics.RecordCapacityRejection(exceeded.Leaf.MessType, exceeded.Leaf.Category, exceeded.Leaf.Subcategory)
	log.WithFields(logrus.Fields{"leaf": exceeded.Leaf.String(), "max_items": exceeded.MaxAllowed}).Warn("超過分類上限")
}

func leafOf(item models.MealItem) taxonomy.Leaf {
	return taxonomy.Leaf{
		Category:    strings.TrimSpace(item.Category),
		MessType:    strings.TrimSpace(item.MessType),
		Subcategory: strings.TrimSpace(item.Subcategory),
	}
}

func groupByLeaf(candidates []models.MealItem) []group {
	var groups []group
	index := make(map[taxonomy.Leaf]int)
	for _, candidate := range candidates {
		leaf := leafOf(candidate)
		candidate.ItemID = uuid.NewString()
		candidate.Name = strings.TrimSpace(candidate.Name)
		candidate.MessType = leaf.MessType
		candidate.Category = leaf.Category
		candidate.Subcategory = leaf.Subcategory
		i, ok := index[leaf]
		if !ok {
			i = len(groups)
			index[leaf] = i
			groups = append(groups, group{leaf: leaf})
		}
		groups[i].items = append(groups[i].items, candidate)
	}
	return groups
}
