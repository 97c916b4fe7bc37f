// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/realtime"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Extend this struct as your app evolves.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Redis is nil unless redis_url is configured; the hub then runs in
	// single-instance mode.
	Redis *redis.Client

	// Hub is the realtime dispatcher. Built in ConnectDB (it needs the
	// Redis client), started in Startup, stopped in Shutdown.
	Hub *realtime.Hub
}
