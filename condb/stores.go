package condb

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2/log"

	"sneakershop/config"
	"sneakershop/repositories"
)

// Stores is the set of backends selected by STORE_DRIVER.
type Stores struct {
	Users    repositories.UserStore
	Products repositories.ProductStore
	close    func()
}

func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the configured backend and prepares its schema.
func Open(ctx context.Context, cfg config.Config) (*Stores, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		pool, err := Postgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		log.Info("Connected to PostgreSQL")
		return &Stores{
			Users:    repositories.NewPostgresUserStore(pool),
			Products: repositories.NewPostgresProductStore(pool),
			close:    pool.Close,
		}, nil

	case config.DriverMongo:
		client, db, err := Mongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		users := repositories.NewMongoUserStore(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		log.Infow("Connected to MongoDB", "database", cfg.MongoDatabase)
		return &Stores{
			Users:    users,
			Products: repositories.NewMongoProductStore(db),
			close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Errorw("MongoDB disconnect failed", "error", err)
				}
			},
		}, nil

	case config.DriverMemory:
		log.Warn("Using in-memory stores, data is lost on restart")
		return &Stores{
			Users:    repositories.NewInMemoryUserStore(),
			Products: repositories.NewInMemoryProductStore(),
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
