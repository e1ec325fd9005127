package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/shoplist/api/internal/models"
	"github.com/shoplist/api/internal/repository"
	"github.com/shoplist/api/internal/services"
	"github.com/shoplist/api/pkg/config"
	"github.com/shoplist/api/pkg/database"
	appErr "github.com/shoplist/api/pkg/errors"
	"github.com/shoplist/api/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := repository.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	if cfg.SeedUsername != "" {
		if err := seedUser(ctx, repository.NewUserRepository(db), cfg.SeedUsername, cfg.SeedPassword); err != nil {
			log.Fatal("seeding user failed", zap.Error(err))
		}
	}

	fmt.Fprintln(os.Stdout, "migrations completed")
}

// seedUser creates username with a bcrypt hash of password unless it already exists.
func seedUser(ctx context.Context, users repository.UserRepository, username, password string) error {
	var existing models.User
	err := users.GetByUsername(ctx, username, &existing)
	if err == nil {
		logger.L().Info("seed user already exists", zap.String("username", username))
		return nil
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return err
	}

	hashed, err := services.HashPassword(password)
	if err != nil {
		return err
	}
	u := models.User{Username: username, Password: hashed}
	if err := users.Create(ctx, &u); err != nil {
		return err
	}
	logger.L().Info("seed user created", zap.String("username", username), zap.Int64("user_id", u.UserID))
	return nil
}
