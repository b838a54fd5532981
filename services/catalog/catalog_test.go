package catalog

import (
	"context"
	"errors"
	"testing"

	"menupick-admin-worker/database"
	"menupick-admin-worker/models"
	"menupick-admin-worker/services/capacity"
	"menupick-admin-worker/services/filter"
	"menupick-admin-worker/services/ingest"
	"menupick-admin-worker/services/store"
	"menupick-admin-worker/services/taxonomy"
	"menupick-admin-worker/structs"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	rice   = taxonomy.Leaf{Category: "lunch", MessType: "veg", Subcategory: "Rice"}
	curry  = taxonomy.Leaf{Category: "lunch", MessType: "veg", Subcategory: "Curry"}
	roti   = taxonomy.Leaf{Category: "lunch", MessType: "veg", Subcategory: "Roti"}
	soup   = taxonomy.Leaf{Category: "dinner", MessType: "special", Subcategory: "Soup"}
	brunch = taxonomy.Leaf{Category: "brunch", MessType: "veg", Subcategory: "General"}
)

func newService(t *testing.T) (*Service, *store.GormStore) {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	catalog := store.NewGormStore(db, "meals")
	logger, _ := test.NewNullLogger()
	entry := logrus.NewEntry(logger)
	table := taxonomy.Default()
	checker := capacity.New(table)
	engine := ingest.New(table, checker, catalog, entry, nil)
	return NewService(table, checker, catalog, engine, entry), catalog
}

func meal(leaf taxonomy.Leaf, name string) models.MealItem {
	return models.MealItem{MessType: leaf.MessType, Category: leaf.Category, Subcategory: leaf.Subcategory, Name: name}
}

func TestListAppliesCriteria(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.CreateBatch(ctx, []models.MealItem{meal(rice, "Jeera Rice"), meal(rice, "Lemon Rice")})
	require.NoError(t, err)
	_, err = service.Create(ctx, meal(curry, "Dal Makhani"))
	require.NoError(t, err)

	items, err := service.List(ctx, filter.Criteria{Subcategory: "Rice", Query: "lemon"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Lemon Rice", items[0].Name)

	all, err := service.List(ctx, filter.Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestCreateBatchRejectsMixedLeaves(t *testing.T) {
	service, catalog := newService(t)

	_, err := service.CreateBatch(context.Background(), []models.MealItem{meal(rice, "Jeera Rice"), meal(curry, "Rajma")})
	assert.ErrorIs(t, err, ErrMixedLeaves)

	all, err := catalog.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCapacity(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	_, err := service.CreateBatch(ctx, []models.MealItem{meal(roti, "Phulka"), meal(roti, "Naan")})
	require.NoError(t, err)

	result, err := service.Capacity(ctx, roti)
	require.NoError(t, err)
	assert.Equal(t, capacity.Result{CurrentCount: 2, MaxAllowed: 5}, result)

	_, err = service.Capacity(ctx, brunch)
	assert.ErrorIs(t, err, ErrUnknownLeaf)
}

func TestUpdateValidatesPatch(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	id, err := service.Create(ctx, meal(rice, "Jeera Rice"))
	require.NoError(t, err)

	assert.ErrorIs(t, service.Update(ctx, rice, id, structs.MealItemPatch{}), ErrEmptyPatch)
	blank := "  "
	assert.ErrorIs(t, service.Update(ctx, rice, id, structs.MealItemPatch{Name: &blank}), ingest.ErrEmptyName)
	assert.ErrorIs(t, service.Update(ctx, rice, id, structs.MealItemPatch{Nutrition: &structs.Nutrition{Fat: -1}}), ErrNegativeNutrition)

	name := "Ghee Rice"
	require.NoError(t, service.Update(ctx, rice, id, structs.MealItemPatch{Name: &name}))
	items, err := service.List(ctx, filter.Criteria{Query: "ghee"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ItemID)

	assert.ErrorIs(t, service.Update(ctx, curry, id, structs.MealItemPatch{Name: &name}), store.ErrNotFound)
}

func TestDelete(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	id, err := service.Create(ctx, meal(rice, "Jeera Rice"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(ctx, rice, id))
	assert.ErrorIs(t, service.Delete(ctx, rice, id), store.ErrNotFound)
}

func TestRelocateMovesItem(t *testing.T) {
	service, catalog := newService(t)
	ctx := context.Background()

	item := meal(rice, "Veg Pulao")
	item.Tags = models.TagSet{"festive"}
	id, err := service.Create(ctx, item)
	require.NoError(t, err)

	newID, err := service.Relocate(ctx, rice, id, curry)
	require.NoError(t, err)
	assert.NotEqual(t, id, newID)

	inRice, err := catalog.List(ctx, store.LeafPath("meals", rice))
	require.NoError(t, err)
	assert.Empty(t, inRice)

	inCurry, err := catalog.List(ctx, store.LeafPath("meals", curry))
	require.NoError(t, err)
	require.Len(t, inCurry, 1)
	assert.Equal(t, newID, inCurry[0].ItemID)
	assert.Equal(t, "Veg Pulao", inCurry[0].Name)
	assert.Equal(t, models.TagSet{"festive"}, inCurry[0].Tags)
}

func TestRelocateRespectsTargetCapacity(t *testing.T) {
	service, catalog := newService(t)
	ctx := context.Background()

	var full []models.MealItem
	for _, name := range []string{"Tomato", "Sweet Corn", "Hot and Sour", "Mushroom"} {
		full = append(full, models.MealItem{MessType: soup.MessType, Category: soup.Category, Subcategory: soup.Subcategory, Name: name})
	}
	_, err := service.CreateBatch(ctx, full)
	require.NoError(t, err)
	id, err := service.Create(ctx, meal(rice, "Curd Rice"))
	require.NoError(t, err)

	_, err = service.Relocate(ctx, rice, id, soup)

	var exceeded *ingest.CapacityExceededError
	require.True(t, errors.As(err, &exceeded))
	inRice, err := catalog.List(ctx, store.LeafPath("meals", rice))
	require.NoError(t, err)
	assert.Len(t, inRice, 1)
}

func TestRelocateUnknownItem(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Relocate(context.Background(), rice, "missing", curry)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
