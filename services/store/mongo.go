package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"menupick-admin-worker/models"
	"menupick-admin-worker/structs"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	studentCollection  = "students"
	snapshotCollection = "preference_snapshots"
	feedbackCollection = "feedbacks"
	activityCollection = "activity_log"
	leafLockCollection = "leaf_locks"
)

// MongoStore flattens the catalog hierarchy into one collection named after the root;
// every document carries its coordinate fields.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
	root   string
	now    func() time.Time
}

func NewMongoStore(client *mongo.Client, database, root string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(database), root: root, now: time.Now}
}

func leafFilter(path Path) bson.M {
	return bson.M{"mess_type": path.MessType, "category": path.Category, "subcategory": path.Subcategory}
}

func itemFilter(path Path, id string) bson.M {
	filter := leafFilter(path)
	filter["_id"] = id
	return filter
}

func (s *MongoStore) items() *mongo.Collection {
	return s.db.Collection(s.root)
}

func (s *MongoStore) Root() string {
	return s.root
}

func (s *MongoStore) checkPath(path Path) error {
	if err := path.Validate(); err != nil {
		return err
	}
	if path.Root != s.root {
		return fmt.Errorf("%w: unknown root %q", ErrInvalidPath, path.Root)
	}
	return nil
}

// EnsureIndexes 建立 leaf 查詢用的複合索引
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.items().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "mess_type", Value: 1}, {Key: "category", Value: 1}, {Key: "subcategory", Value: 1}},
	})
	if err != nil {
		return unavailable("ensure indexes", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, path Path) ([]models.MealItem, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	return s.find(ctx, "list", leafFilter(path), opts)
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.MealItem, error) {
	opts := options.Find().SetSort(bson.D{
		{Key: "mess_type", Value: 1}, {Key: "category", Value: 1}, {Key: "subcategory", Value: 1},
		{Key: "created_at", Value: 1}, {Key: "_id", Value: 1},
	})
	return s.find(ctx, "list all", bson.M{}, opts)
}

func (s *MongoStore) find(ctx context.Context, op string, filter bson.M, opts *options.FindOptions) ([]models.MealItem, error) {
	cursor, err := s.items().Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable(op, err)
	}
	var items []models.MealItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, unavailable(op, err)
	}
	return items, nil
}

func (s *MongoStore) Create(ctx context.Context, path Path, item models.MealItem) (string, error) {
	ids, err := s.BatchCreate(ctx, path, []models.MealItem{item})
	if err != nil {
		return "", err
	}
	return ids[0], nil
}

func (s *MongoStore) BatchCreate(ctx context.Context, path Path, items []models.MealItem) ([]string, error) {
	return s.commit(ctx, path, items, -1)
}

func (s *MongoStore) BatchCreateCapped(ctx context.Context, path Path, items []models.MealItem, maxItems int) ([]string, error) {
	return s.commit(ctx, path, items, maxItems)
}

func (s *MongoStore) commit(ctx context.Context, path Path, items []models.MealItem, maxItems int) ([]string, error) {
	if err := s.checkPath(path); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	now := s.now()
	ids := make([]string, len(items))
	docs := make([]interface{}, len(items))
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
		docs[i] = item
	}

	session, err := s.client.StartSession()
	if err != nil {
		return nil, unavailable("start session", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if maxItems >= 0 {
			// 先寫 leaf lock，同一個 leaf 的並行交易會 write conflict
			lock := options.Update().SetUpsert(true)
			if _, err := s.db.Collection(leafLockCollection).UpdateOne(sc, bson.M{"_id": path.Leaf().String()}, bson.M{"$inc": bson.M{"commits": 1}}, lock); err != nil {
				return nil, unavailable("lock leaf", err)
			}
			current, err := s.items().CountDocuments(sc, leafFilter(path))
			if err != nil {
				return nil, unavailable("count", err)
			}
			if int(current)+len(items) > maxItems {
				return nil, &LeafFullError{Path: path, Current: int(current), Incoming: len(items), MaxAllowed: maxItems}
			}
		}
		if _, err := s.items().InsertMany(sc, docs); err != nil {
			return nil, unavailable("batch create", err)
		}
		return nil, nil
	})
	if err != nil {
		var full *LeafFullError
		var offline *UnavailableError
		if errors.As(err, &full) || errors.As(err, &offline) {
			return nil, err
		}
		return nil, unavailable("commit", err)
	}
	return ids, nil
}

func (s *MongoStore) Update(ctx context.Context, path Path, id string, patch structs.MealItemPatch) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	cols := patch.Columns(s.now())
	result, err := s.items().UpdateOne(ctx, itemFilter(path, id), bson.M{"$set": bson.M(cols)})
	if err != nil {
		return unavailable("update", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, path Path, id string) error {
	if err := s.checkPath(path); err != nil {
		return err
	}
	result, err := s.items().DeleteOne(ctx, itemFilter(path, id))
	if err != nil {
		return unavailable("delete", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) ListStudents(ctx context.Context) ([]models.Student, error) {
	cursor, err := s.db.Collection(studentCollection).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, unavailable("list students", err)
	}
	var students []models.Student
	if err := cursor.All(ctx, &students); err != nil {
		return nil, unavailable("list students", err)
	}
	return students, nil
}

type snapshotDocument struct {
	StudentID  string        `bson:"_id"`
	MessType   string        `bson:"mess_type"`
	Selections bson.RawValue `bson:"selections"`
	UpdatedAt  *time.Time    `bson:"updated_at"`
}

func (s *MongoStore) ListSnapshots(ctx context.Context) ([]models.PreferenceSnapshot, error) {
	cursor, err := s.db.Collection(snapshotCollection).Find(ctx, bson.M{})
	if err != nil {
		return nil, unavailable("list snapshots", err)
	}
	var docs []snapshotDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, unavailable("list snapshots", err)
	}
	snapshots := make([]models.PreferenceSnapshot, 0, len(docs))
	for _, doc := range docs {
		snapshots = append(snapshots, models.PreferenceSnapshot{
			StudentID:  doc.StudentID,
			MessType:   doc.MessType,
			Selections: selectionsJSON(doc.Selections),
			UpdatedAt:  doc.UpdatedAt,
		})
	}
	return snapshots, nil
}

// selectionsJSON 不是 document 的 selections 視為沒有選擇
func selectionsJSON(value bson.RawValue) string {
	if value.Type != bson.TypeEmbeddedDocument {
		return ""
	}
	elements, err := value.Document().Elements()
	if err != nil {
		return ""
	}
	selected := make(map[string]bool, len(elements))
	for _, element := range elements {
		v := element.Value()
		switch v.Type {
		case bson.TypeBoolean:
			selected[element.Key()] = v.Boolean()
		case bson.TypeNull, bson.TypeUndefined:
		default:
			selected[element.Key()] = true
		}
	}
	raw, err := json.Marshal(selected)
	if err != nil {
		return ""
	}
	return string(raw)
}

func (s *MongoStore) ListFeedback(ctx context.Context) ([]models.Feedback, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.db.Collection(feedbackCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, unavailable("list feedback", err)
	}
	var feedback []models.Feedback
	if err := cursor.All(ctx, &feedback); err != nil {
		return nil, unavailable("list feedback", err)
	}
	return feedback, nil
}

func (s *MongoStore) RecordActivity(ctx context.Context, activity models.ActivityLog) error {
	now := s.now()
	activity.CreatedAt = &now
	activity.UpdatedAt = &now
	if _, err := s.db.Collection(activityCollection).InsertOne(ctx, activity); err != nil {
		return unavailable("record activity", err)
	}
	return nil
}
