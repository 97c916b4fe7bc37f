// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"

	userstore "github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/store/users"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/app/system/timeouts"
	"github.com/bitragunta-sivaiah/brainbeyond-sub000/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	go deps.Hub.Run()

	if appCfg.AdminEmail != "" {
		seedCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
		defer cancel()
		if err := ensureAdmin(seedCtx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin creates the bootstrap admin account, or promotes an
// existing user with that email. Runs on every startup; both paths are
// idempotent.
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	if err == nil {
		if existing.Role == "admin" {
			return nil
		}
		_, err = deps.MongoDatabase.Collection("users").UpdateByID(ctx, existing.ID,
			bson.M{"$set": bson.M{"role": "admin"}})
		if err != nil {
			return err
		}
		logger.Info("promoted existing user to admin", zap.String("user_id", existing.ID.Hex()))
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	created, err := users.Create(ctx, models.User{
		FullName: "Administrator",
		Email:    email,
		Role:     "admin",
		Status:   "active",
	}, password)
	if err != nil {
		return err
	}
	logger.Info("created bootstrap admin", zap.String("user_id", created.ID.Hex()))
	return nil
}
