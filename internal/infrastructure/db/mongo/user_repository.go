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

const collectionUsers = "users"

// UserRepository implements ports.UserRepository using MongoDB.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(collectionUsers)}
}

type mongoOneTimeCode struct {
	Hash      string `bson:"hash"`
	IssuedAt  int64  `bson:"issued_at"`
	ExpiresAt int64  `bson:"expires_at"`
}

type mongoUser struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Name                string             `bson:"name"`
	Email               string             `bson:"email"`
	Telephone           string             `bson:"telephone,omitempty"`
	PasswordHash        string             `bson:"password_hash"`
	SecurityQuestion1   string             `bson:"security_question_1"`
	SecurityQuestion2   string             `bson:"security_question_2"`
	SecurityAnswerHash1 string             `bson:"security_answer_hash_1"`
	SecurityAnswerHash2 string             `bson:"security_answer_hash_2"`
	Role                string             `bson:"role"`
	OneTimeCode         *mongoOneTimeCode  `bson:"one_time_code,omitempty"`
	SessionVersion      int                `bson:"session_version"`
	CreatedAt           int64              `bson:"created_at"`
	UpdatedAt           int64              `bson:"updated_at"`
}

// EnsureIndexes creates the unique email index that makes signup atomic.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoUser{
		Name:                user.Name,
		Email:               user.Email,
		Telephone:           user.Telephone,
		PasswordHash:        user.PasswordHash,
		SecurityQuestion1:   user.SecurityQuestion1,
		SecurityQuestion2:   user.SecurityQuestion2,
		SecurityAnswerHash1: user.SecurityAnswerHash1,
		SecurityAnswerHash2: user.SecurityAnswerHash2,
		Role:                string(user.Role),
		CreatedAt:           user.CreatedAt.Unix(),
		UpdatedAt:           user.UpdatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) UpdateCredentials(ctx context.Context, userID, passwordHash string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return 0, domain.ErrUserNotFound
	}

	update := bson.M{
		"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC().Unix()},
		"$inc": bson.M{"session_version": 1},
	}
	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(bson.M{"session_version": 1})

	var out struct {
		SessionVersion int `bson:"session_version"`
	}
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, domain.ErrUserNotFound
		}
		return 0, fmt.Errorf("update credentials: %w", err)
	}
	return out.SessionVersion, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID, name, email, telephone string) error {
	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{
			"name":       name,
			"email":      email,
			"telephone":  telephone,
			"updated_at": time.Now().UTC().Unix(),
		},
	})
}

func (r *UserRepository) SetOneTimeCode(ctx context.Context, userID string, code domain.OneTimeCode) error {
	return r.updateOne(ctx, userID, bson.M{
		"$set": bson.M{"one_time_code": mongoOneTimeCode{
			Hash:      code.Hash,
			IssuedAt:  code.IssuedAt.Unix(),
			ExpiresAt: code.ExpiresAt.Unix(),
		}},
	})
}

func (r *UserRepository) ClearOneTimeCode(ctx context.Context, userID string) error {
	return r.updateOne(ctx, userID, bson.M{"$unset": bson.M{"one_time_code": ""}})
}

// ConsumeOneTimeCode removes the pending code only if it still carries hash;
// the filter and the unset run as one atomic document update.
func (r *UserRepository) ConsumeOneTimeCode(ctx context.Context, userID, hash string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return false, nil
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": oid, "one_time_code.hash": hash},
		bson.M{"$unset": bson.M{"one_time_code": ""}},
	)
	if err != nil {
		return false, fmt.Errorf("consume one-time code: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) updateOne(ctx context.Context, userID string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	u := &domain.User{
		ID:                  mu.ID.Hex(),
		Name:                mu.Name,
		Email:               mu.Email,
		Telephone:           mu.Telephone,
		PasswordHash:        mu.PasswordHash,
		SecurityQuestion1:   mu.SecurityQuestion1,
		SecurityQuestion2:   mu.SecurityQuestion2,
		SecurityAnswerHash1: mu.SecurityAnswerHash1,
		SecurityAnswerHash2: mu.SecurityAnswerHash2,
		Role:                domain.Role(mu.Role),
		SessionVersion:      mu.SessionVersion,
		CreatedAt:           unixToTime(mu.CreatedAt),
		UpdatedAt:           unixToTime(mu.UpdatedAt),
	}
	if mu.OneTimeCode != nil {
		u.OneTimeCode = &domain.OneTimeCode{
			Hash:      mu.OneTimeCode.Hash,
			IssuedAt:  unixToTime(mu.OneTimeCode.IssuedAt),
			ExpiresAt: unixToTime(mu.OneTimeCode.ExpiresAt),
		}
	}
	return u
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
