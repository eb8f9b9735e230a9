package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PatrolPeakPlanner/PatrolPeakPlanners/internal/core/domain"
)

const collectionItems = "checklist_items"

// ItemRepository implements ports.ItemRepository using MongoDB. Every filter
// includes user_id.
type ItemRepository struct {
	col *mongo.Collection
}

func NewItemRepository(db *mongo.Database) *ItemRepository {
	return &ItemRepository{col: db.Collection(collectionItems)}
}

type mongoItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"user_id"`
	Name      string             `bson:"name"`
	Completed bool               `bson:"completed"`
	Initials  string             `bson:"initials,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (m *mongoItem) toDomain() *domain.Item {
	return &domain.Item{
		ID:        m.ID.Hex(),
		UserID:    m.UserID.Hex(),
		Name:      m.Name,
		Completed: m.Completed,
		Initials:  m.Initials,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ListByUser returns the user's items in creation order.
func (r *ItemRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return []*domain.Item{}, nil
	}

	cur, err := r.col.Find(ctx, bson.M{"user_id": owner}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}
	defer cur.Close(ctx)

	var docs []mongoItem
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items := make([]*domain.Item, 0, len(docs))
	for i := range docs {
		items = append(items, docs[i].toDomain())
	}
	return items, nil
}

func (r *ItemRepository) Create(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, err := primitive.ObjectIDFromHex(item.UserID)
	if err != nil {
		return nil, fmt.Errorf("insert item: invalid owner id %q", item.UserID)
	}

	doc := mongoItem{
		UserID:    owner,
		Name:      item.Name,
		Completed: item.Completed,
		Initials:  item.Initials,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid
	}
	return doc.toDomain(), nil
}

// Update applies patch to the item only if it belongs to userID. Malformed ids
// and foreign items both yield domain.ErrItemNotFound.
func (r *ItemRepository) Update(ctx context.Context, userID, itemID string, patch domain.ItemPatch) (*domain.Item, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, ok := ownedFilter(userID, itemID)
	if !ok {
		return nil, domain.ErrItemNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}
	if patch.Initials != nil {
		set["initials"] = *patch.Initials
	}

	var doc mongoItem
	err := r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrItemNotFound
		}
		return nil, fmt.Errorf("update item: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ItemRepository) Delete(ctx context.Context, userID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter, ok := ownedFilter(userID, itemID)
	if !ok {
		return domain.ErrItemNotFound
	}

	res, err := r.col.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrItemNotFound
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the items collection.
func (r *ItemRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "_id", Value: 1}},
	})
	return err
}

func ownedFilter(userID, itemID string) (bson.M, bool) {
	owner, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(itemID)
	if err != nil {
		return nil, false
	}
	return bson.M{"_id": id, "user_id": owner}, true
}
