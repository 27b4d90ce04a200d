package repositories

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

// UserRepository stores signup accounts. GetByUsername returns (nil, nil)
// when no user matches.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository ensures the unique username index exists.
func NewMongoUserRepository(ctx context.Context, coll *mongo.Collection) (UserRepository, error) {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_username"),
	})
	if err != nil {
		return nil, fmt.Errorf("create username index: %w", err)
	}
	return &mongoUserRepository{coll: coll}, nil
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.Conflictf("user %q already exists", u.Username)
		}
		return err
	}
	return nil
}

// MemoryUserRepository is a map-backed UserRepository for tests and
// local runs without MongoDB.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[string]models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]models.User{}}
}

func (r *MemoryUserRepository) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[username]
	if !ok {
		return nil, nil
	}
	u.Roles = append([]string(nil), u.Roles...)
	return &u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Username]; ok {
		return utils.Conflictf("user %q already exists", u.Username)
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	stored := *u
	stored.Roles = append([]string(nil), u.Roles...)
	r.users[u.Username] = stored
	return nil
}
