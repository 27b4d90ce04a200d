package app

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/config"
	"github.com/AndreaCerratoSP/CIAMS/services/auth-service/internal/repositories"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	maxRetries     = 5
	connectTimeout = 20 * time.Second
	pingTimeout    = 5 * time.Second
	initialBackoff = 500 * time.Millisecond
)

type App struct {
	Config *config.Config
	Mongo  *mongo.Client
	Users  repositories.UserRepository
}

func NewApp(cfg *config.Config) (*App, error) {
	client, err := connectWithRetry(cfg.MongoURI)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Mongo: client}

	coll := client.Database(cfg.MongoDatabase).Collection(cfg.UsersCollection)
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	users, err := repositories.NewMongoUserRepository(ctx, coll)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("init user repository: %w", err)
	}
	a.Users = users
	return a, nil
}

func (a *App) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return a.Mongo.Ping(ctx, readpref.Primary())
}

func (a *App) Close() {
	if a.Mongo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.Mongo.Disconnect(ctx); err != nil {
		utils.Logger.WithError(err).Warn("Error disconnecting from MongoDB")
		return
	}
	utils.Logger.Info("auth-service MongoDB connection closed.")
}

func connectWithRetry(uri string) (*mongo.Client, error) {
	backoff := initialBackoff
	for i := 1; ; i++ {
		client, err := newMongoClient(uri)
		if err == nil {
			utils.Logger.Infof("auth-service connected to MongoDB on attempt %d", i)
			return client, nil
		}

		utils.Logger.WithError(err).Warnf(
			"Failed MongoDB connect on attempt %d/%d. Retrying in %v...",
			i, maxRetries, backoff,
		)
		if i == maxRetries {
			return nil, fmt.Errorf("unable to connect after %d attempts: %w", maxRetries, err)
		}
		time.Sleep(backoff)
		backoff *= 2
	}
}

func newMongoClient(uri string) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(15 * time.Second).
		SetSocketTimeout(20 * time.Second).
		SetMaxPoolSize(50)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}

	ctxPing, cancelPing := context.WithTimeout(context.Background(), pingTimeout)
	defer cancelPing()
	if err := client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}
