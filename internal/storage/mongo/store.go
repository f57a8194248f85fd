// Package mongo persists users as MongoDB documents, one per user, with
// cart, addresses and purchase history embedded.
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

	"github.com/hongminglow/km-agri-be/internal/models"
	"github.com/hongminglow/km-agri-be/internal/storage"
)

// Ensure Store satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*Store)(nil)

// Store provides MongoDB-backed persistence for users.
type Store struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewUserStore connects, pings and ensures the user indexes exist.
func NewUserStore(ctx context.Context, uri, database, collection string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	s := &Store{client: client, collection: client.Database(database).Collection(collection)}
	if err := s.migrate(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.client.Disconnect(ctx)
	}
}

func (s *Store) migrate(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetName("users_phone_unique")},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true).SetName("users_email_unique")},
		{Keys: bson.D{{Key: "role", Value: 1}}, Options: options.Index().SetName("users_role")},
		{Keys: bson.D{{Key: "isActive", Value: 1}}, Options: options.Index().SetName("users_is_active")},
	}
	if _, err := s.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// CreateUser inserts a new user document.
func (s *Store) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Normalize()
	if _, err := s.collection.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

// FindByID fetches a user by hex id.
func (s *Store) FindByID(ctx context.Context, id string) (models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.User{}, storage.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// FindByPhone fetches a user by phone number.
func (s *Store) FindByPhone(ctx context.Context, phone string) (models.User, error) {
	return s.findOne(ctx, bson.M{"phone": phone})
}

// FindByEmail fetches a user by email address.
func (s *Store) FindByEmail(ctx context.Context, email string) (models.User, error) {
	if email == "" {
		return models.User{}, storage.ErrNotFound
	}
	return s.findOne(ctx, bson.M{"email": email})
}

// ListUsers returns matching users newest first along with the match count.
func (s *Store) ListUsers(ctx context.Context, f storage.UserFilter) ([]models.User, int, error) {
	query := bson.M{}
	if f.Role != "" {
		query["role"] = f.Role
	}
	if f.IsActive != nil {
		query["isActive"] = *f.IsActive
	}
	if f.Search != "" {
		pattern := primitive.Regex{Pattern: storage.SearchExpr(f.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"email": pattern},
			bson.M{"phone": pattern},
		}
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(max(f.Offset, 0)))
	if f.Limit > 0 {
		opts.SetLimit(int64(f.Limit))
	}
	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		u.Normalize()
		users = append(users, u)
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate users: %w", err)
	}
	return users, int(total), nil
}

// SaveUser replaces the whole user document.
func (s *Store) SaveUser(ctx context.Context, user models.User) (models.User, error) {
	user.Normalize()
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, storage.ErrAlreadyExists
		}
		return models.User{}, fmt.Errorf("replace user: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.User{}, storage.ErrNotFound
	}
	return user, nil
}

// DeleteUser removes a user document.
func (s *Store) DeleteUser(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return storage.ErrNotFound
	}
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	if err := s.collection.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("find user: %w", err)
	}
	u.Normalize()
	return u, nil
}
