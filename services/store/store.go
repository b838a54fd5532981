package store

import (
	"context"
	"errors"
	"fmt"

	"menupick-admin-worker/models"
	"menupick-admin-worker/structs"
)

// Catalog is the keyed document service holding meal items.
type Catalog interface {
	// Root is the top-level collection every Path of this catalog starts with.
	Root() string
	List(ctx context.Context, path Path) ([]models.MealItem, error)
	ListAll(ctx context.Context) ([]models.MealItem, error)
	Create(ctx context.Context, path Path, item models.MealItem) (string, error)
	// BatchCreate commits all items or none of them.
	BatchCreate(ctx context.Context, path Path, items []models.MealItem) ([]string, error)
	Update(ctx context.Context, path Path, id string, patch structs.MealItemPatch) error
	Delete(ctx context.Context, path Path, id string) error
}

// CappedBatchCreator re-counts the leaf inside the commit and refuses to go past maxItems.
type CappedBatchCreator interface {
	BatchCreateCapped(ctx context.Context, path Path, items []models.MealItem, maxItems int) ([]string, error)
}

// Roster 學生資料與偏好快照，由學生端 app 維護
type Roster interface {
	ListStudents(ctx context.Context) ([]models.Student, error)
	ListSnapshots(ctx context.Context) ([]models.PreferenceSnapshot, error)
}

type FeedbackReader interface {
	ListFeedback(ctx context.Context) ([]models.Feedback, error)
}

type ActivityRecorder interface {
	RecordActivity(ctx context.Context, activity models.ActivityLog) error
}

var ErrNotFound = errors.New("item not found")

// UnavailableError wraps every driver level failure (network, permission, remote validation).
type UnavailableError struct {
	Op  string
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error {
	return e.Err
}

func unavailable(op string, err error) error {
	return &UnavailableError{Op: op, Err: err}
}

// LeafFullError is returned by BatchCreateCapped when the commit would pass the cap.
type LeafFullError struct {
	Path       Path
	Current    int
	Incoming   int
	MaxAllowed int
}

func (e *LeafFullError) Error() string {
	return fmt.Sprintf("leaf %s holds %d items, adding %d exceeds max %d", e.Path.Leaf(), e.Current, e.Incoming, e.MaxAllowed)
}
