package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"menupick-admin-worker/database"
	"menupick-admin-worker/models"
	"menupick-admin-worker/structs"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRoot = "meals"

var chutney = Path{Root: testRoot, MessType: "veg", Category: "breakfast", Subcategory: "Chutney"}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// in-memory sqlite 每條連線是獨立的資料庫
	db.DB().SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestGormStore(t *testing.T) (*GormStore, *gorm.DB) {
	db := newTestDB(t)
	s := NewGormStore(db, testRoot)
	fixed := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s, db
}

func named(names ...string) []models.MealItem {
	items := make([]models.MealItem, 0, len(names))
	for _, name := range names {
		items = append(items, models.MealItem{Name: name, Tags: models.TagSet{"spicy"}})
	}
	return items
}

func TestGormBatchCreateAssignsIDsAndCoordinate(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	items := named("Coconut", "Tomato")
	items[0].MessType = "non-veg"
	ids, err := s.BatchCreate(ctx, chutney, items)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.NotEqual(t, ids[0], ids[1])

	listed, err := s.List(ctx, chutney)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, item := range listed {
		assert.Equal(t, "veg", item.MessType)
		assert.Equal(t, "breakfast", item.Category)
		assert.Equal(t, "Chutney", item.Subcategory)
		assert.Equal(t, models.TagSet{"spicy"}, item.Tags)
		require.NotNil(t, item.CreatedAt)
		assert.Contains(t, ids, item.ItemID)
	}
}

func TestGormCreateSingle(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, chutney, models.MealItem{Name: "Mint"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	all, err := s.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ItemID)
}

func TestGormBatchCreateCappedRejectsWholeGroup(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	_, err := s.BatchCreate(ctx, chutney, named("a", "b", "c"))
	require.NoError(t, err)

	_, err = s.BatchCreateCapped(ctx, chutney, named("d", "e"), 4)
	var full *LeafFullError
	require.True(t, errors.As(err, &full))
	assert.Equal(t, 3, full.Current)
	assert.Equal(t, 2, full.Incoming)
	assert.Equal(t, 4, full.MaxAllowed)

	listed, err := s.List(ctx, chutney)
	require.NoError(t, err)
	assert.Len(t, listed, 3)

	ids, err := s.BatchCreateCapped(ctx, chutney, named("d"), 4)
	require.NoError(t, err)
	assert.Len(t, ids, 1)
}

func TestGormUpdateKeepsCoordinate(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, chutney, models.MealItem{Name: "Mint", Calories: 40})
	require.NoError(t, err)

	name := "  Mint Chutney "
	err = s.Update(ctx, chutney, id, structs.MealItemPatch{
		Name:      &name,
		Nutrition: &structs.Nutrition{Calories: 55, Protein: 1},
		Tags:      &[]string{"green", "Green", " "},
	})
	require.NoError(t, err)

	listed, err := s.List(ctx, chutney)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Mint Chutney", listed[0].Name)
	assert.Equal(t, 55, listed[0].Calories)
	assert.Equal(t, 1, listed[0].Protein)
	assert.Equal(t, models.TagSet{"green"}, listed[0].Tags)
	assert.Equal(t, "Chutney", listed[0].Subcategory)
}

func TestGormUpdateAndDeleteUnknownItem(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	name := "x"
	assert.ErrorIs(t, s.Update(ctx, chutney, "missing", structs.MealItemPatch{Name: &name}), ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, chutney, "missing"), ErrNotFound)

	id, err := s.Create(ctx, chutney, models.MealItem{Name: "Mint"})
	require.NoError(t, err)

	other := chutney
	other.MessType = "non-veg"
	assert.ErrorIs(t, s.Delete(ctx, other, id), ErrNotFound)
	assert.NoError(t, s.Delete(ctx, chutney, id))

	listed, err := s.List(ctx, chutney)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestGormRejectsForeignRoot(t *testing.T) {
	s, _ := newTestGormStore(t)

	other := chutney
	other.Root = "archive"
	_, err := s.List(context.Background(), other)
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestGormClosedDatabaseIsUnavailable(t *testing.T) {
	s, db := newTestGormStore(t)
	require.NoError(t, db.Close())

	_, err := s.List(context.Background(), chutney)
	var unavailableErr *UnavailableError
	require.True(t, errors.As(err, &unavailableErr))
	assert.Equal(t, "list", unavailableErr.Op)

	_, err = s.BatchCreate(context.Background(), chutney, named("a"))
	assert.True(t, errors.As(err, &unavailableErr))
}

func TestGormRosterAndFeedback(t *testing.T) {
	s, db := newTestGormStore(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Student{ID: "s2", DisplayName: "Ravi", MessType: "veg"}).Error)
	require.NoError(t, db.Create(&models.Student{ID: "s1", DisplayName: "Asha", MessType: "non-veg"}).Error)
	require.NoError(t, db.Create(&models.PreferenceSnapshot{StudentID: "s1", MessType: "non-veg", Selections: `{"a":true}`}).Error)

	first := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	second := first.Add(time.Hour)
	require.NoError(t, db.Create(&models.Feedback{StudentID: "s1", ItemID: "a", Rating: 4, CreatedAt: &first}).Error)
	require.NoError(t, db.Create(&models.Feedback{StudentID: "s2", ItemID: "a", Rating: 2, CreatedAt: &second}).Error)

	students, err := s.ListStudents(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "s1", students[0].ID)

	snapshots, err := s.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, map[string]bool{"a": true}, snapshots[0].Selected())

	feedback, err := s.ListFeedback(ctx)
	require.NoError(t, err)
	require.Len(t, feedback, 2)
	assert.Equal(t, 2, feedback[0].Rating)
}

func TestGormRecordActivity(t *testing.T) {
	s, db := newTestGormStore(t)

	require.NoError(t, s.RecordActivity(context.Background(), models.ActivityLog{LogName: "schedule.go.ingest", Properties: "{}"}))

	var logs []models.ActivityLog
	require.NoError(t, db.Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "schedule.go.ingest", logs[0].LogName)
	assert.NotZero(t, logs[0].ID)
	require.NotNil(t, logs[0].CreatedAt)
}

type sqlRecorder struct {
	statements []string
}

func (r *sqlRecorder) Print(v ...interface{}) {
	if len(v) >= 4 && v[0] == "sql" {
		if statement, ok := v[3].(string); ok {
			r.statements = append(r.statements, statement)
		}
	}
}

func TestCountLeafLocksOnMysql(t *testing.T) {
	db := newTestDB(t)

	// mysql dialect 掛在 sqlite 連線上，只看產生的 SQL
	mysqlDB, err := gorm.Open("mysql", db.DB())
	require.NoError(t, err)
	recorder := &sqlRecorder{}
	mysqlDB.SetLogger(recorder)
	mysqlDB.LogMode(true)

	_, _ = countLeaf(mysqlDB, chutney)
	require.Len(t, recorder.statements, 1)
	assert.Contains(t, recorder.statements[0], "count(*)")
	assert.True(t, strings.HasSuffix(recorder.statements[0], "FOR UPDATE"), recorder.statements[0])
}

func TestCountLeafPlainOnSqlite(t *testing.T) {
	s, db := newTestGormStore(t)
	_, err := s.BatchCreate(context.Background(), chutney, named("Coconut", "Tomato"))
	require.NoError(t, err)

	recorder := &sqlRecorder{}
	db.SetLogger(recorder)
	db.LogMode(true)

	current, err := countLeaf(db, chutney)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
	require.Len(t, recorder.statements, 1)
	assert.NotContains(t, recorder.statements[0], "FOR UPDATE")
}

func TestGormIdenticalUpdateTwice(t *testing.T) {
	s, _ := newTestGormStore(t)
	ctx := context.Background()

	id, err := s.Create(ctx, chutney, models.MealItem{Name: "Coconut"})
	require.NoError(t, err)

	name := "Coconut"
	patch := structs.MealItemPatch{Name: &name}
	require.NoError(t, s.Update(ctx, chutney, id, patch))
	require.NoError(t, s.Update(ctx, chutney, id, patch))

	exists, err := s.exists(chutney, id)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.exists(chutney, "missing")
	require.NoError(t, err)
	assert.False(t, exists)
}
