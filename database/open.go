package database

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"masterboxer.com/project-social-backend/config"
	"masterboxer.com/project-social-backend/services"
)

// Store is a backend serving both users and posts.
type Store interface {
	services.UserStore
	services.PostStore
	Close(ctx context.Context) error
}

var (
	_ Store                      = (*PostgresStore)(nil)
	_ Store                      = (*MongoStore)(nil)
	_ Store                      = (*MemoryStore)(nil)
	_ services.FriendPairUpdater = (*PostgresStore)(nil)
	_ services.FriendPairUpdater = (*MongoStore)(nil)
	_ services.FriendPairUpdater = (*MemoryStore)(nil)
)

// Open connects the backend selected by cfg.StoreDriver and prepares its
// tables or indexes.
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := ConnectDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		store := NewPostgresStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("connected to postgres")
		return store, nil

	case config.DriverMongo:
		store, err := ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		log.WithField("database", cfg.MongoDatabase).Info("connected to mongo")
		return store, nil

	case config.DriverMemory:
		log.Warn("using in-memory store, data is lost on restart")
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
