package store

import (
	"context"
	"fmt"
	"time"

	"menupick-admin-worker/models"
	"menupick-admin-worker/structs"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	gormbulk "github.com/t-tiger/gorm-bulk-insert/v2"
)

const bulkChunkSize = 3000

const leafCondition = "mess_type = ? AND category = ? AND subcategory = ?"

// GormStore keeps every leaf in one meal_items table; the path maps onto the coordinate columns.
type GormStore struct {
	db   *gorm.DB
	root string
	now  func() time.Time
}

func NewGormStore(db *gorm.DB, root string) *GormStore {
	return &GormStore{db: db, root: root, now: time.Now}
}

func (s *GormStore) Root() string {
	return s.root
}

func (s *GormStore) checkPath(path Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if path.Root != s.root {
		return fmt.Errorf("%w: unknown root %q", ErrInvalidPath, path.Root)
	}
	return nil
}

func (s *GormStore) List(ctx context.Context, path Path) ([]models.MealItem, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []models.MealItem
	if err := s.db.Where(leafCondition, path.MessType, path.Category, path.Subcategory).
		Order("created_at, item_id").
		Find(&items).Error; err != nil {
		return nil, unavailable("list", err)
	}
	return items, nil
}

func (s *GormStore) ListAll(ctx context.Context) ([]models.MealItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []models.MealItem
	if err := s.db.Order("mess_type, category, subcategory, created_at, item_id").Find(&items).Error; err != nil {
		return nil, unavailable("list all", err)
	}
	return items, nil
}

func (s *GormStore) Create(ctx context.Context, path Path, item models.MealItem) (string, error) {
	ids, err := s.BatchCreate(ctx, path, []models.MealItem{item})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *GormStore) BatchCreate(ctx context.Context, path Path, items []models.MealItem) ([]string, error) {
	return s.commit(ctx, path, items, -1)
}

func (s *GormStore) BatchCreateCapped(ctx context.Context, path Path, items []models.MealItem, maxItems int) ([]string, error) {
	return s.commit(ctx, path, items, maxItems)
}

// commit 一個 leaf 一個交易，maxItems < 0 代表不檢查上限
func (s *GormStore) commit(ctx context.Context, path Path, items []models.MealItem, maxItems int) ([]string, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	now := s.now()
	ids := make([]string, len(items))
	records := make([]interface{}, len(items))
	for i, item := range items {
		if item.ItemID == "" {
			item.ItemID = uuid.NewString()
		}
		item.MessType = path.MessType
		item.Category = path.Category
		item.Subcategory = path.Subcategory
		item.CreatedAt = &now
		item.UpdatedAt = &now
		ids[i] = item.ItemID
		records[i] = item
	}

	tx := s.db.Begin()
	if err := tx.Error; err != nil {
		return nil, unavailable("begin", err)
	}

	if maxItems >= 0 {
		current, err := countLeaf(tx, path)
		if err != nil {
			tx.Rollback()
			return nil, unavailable("count", err)
		}
		if current+len(items) > maxItems {
			tx.Rollback()
			return nil, &LeafFullError{Path: path, Current: current, Incoming: len(items), MaxAllowed: maxItems}
		}
	}

	// 批次 insert
	if err := gormbulk.BulkInsert(tx, records, bulkChunkSize); err != nil {
		tx.Rollback()
		return nil, unavailable("batch create", err)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, unavailable("commit", err)
	}
	return ids, nil
}

func (s *GormStore) Update(ctx context.Context, path Path, id string, patch structs.MealItemPatch) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	result := s.db.Model(&models.MealItem{}).
		Where("item_id = ? AND "+leafCondition, id, path.MessType, path.Category, path.Subcategory).
		Updates(patch.Columns(s.now()))
	if result.Error != nil {
		return unavailable("update", result.Error)
	}
	if result.RowsAffected == 0 {
		// mysql 沒有實際改變的 row 也回 0，再確認一次 row 是否存在
		exists, err := s.exists(path, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
	}
	return nil
}

func (s *GormStore) exists(path Path, id string) (bool, error) {
	count := 0
	err := s.db.Model(&models.MealItem{}).
		Where("item_id = ? AND "+leafCondition, id, path.MessType, path.Category, path.Subcategory).
		Count(&count).Error
	if err != nil {
		return false, unavailable("update", err)
	}
	return count > 0, nil
}

// countLeaf 在 mysql 上以 FOR UPDATE 鎖住 leaf 的 index 範圍，直到交易結束
func countLeaf(tx *gorm.DB, path Path) (int, error) {
	query := tx.Model(&models.MealItem{}).Where(leafCondition, path.MessType, path.Category, path.Subcategory)
	if tx.Dialect().GetName() == "mysql" {
		query = query.Set("gorm:query_option", "FOR UPDATE")
	}
	current := 0
	err := query.Count(&current).Error
	return current, err
}

func (s *GormStore) Delete(ctx context.Context, path Path, id string) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	result := s.db.Where("item_id = ? AND "+leafCondition, id, path.MessType, path.Category, path.Subcategory).
		Delete(&models.MealItem{})
	if result.Error != nil {
		return unavailable("delete", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var students []models.Student
	if err := s.db.Order("id").Find(&students).Error; err != nil {
		return nil, unavailable("list students", err)
	}
	return students, nil
}

func (s *GormStore) ListSnapshots(ctx context.Context) ([]models.PreferenceSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snapshots []models.PreferenceSnapshot
	if err := s.db.Order("student_id").Find(&snapshots).Error; err != nil {
		return nil, unavailable("list snapshots", err)
	}
	return snapshots, nil
}

func (s *GormStore) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var feedback []models.Feedback
	if err := s.db.Order("created_at desc, id desc").Find(&feedback).Error; err != nil {
		return nil, unavailable("list feedback", err)
	}
	return feedback, nil
}

// RecordActivity 塞入執行紀錄的 log table
func (s *GormStore) RecordActivity(ctx context.Context, activity models.ActivityLog) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	now := s.now()
	activity.CreatedAt = &now
	activity.UpdatedAt = &now
	if err := s.db.Create(&activity).Error; err != nil {
		return unavailable("record activity", err)
	}
	return nil
}
