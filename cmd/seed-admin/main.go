package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/matmaster-backend/internal/users"
	"github.com/angelmondragon/matmaster-backend/pkg/config"
	"github.com/angelmondragon/matmaster-backend/pkg/db"
	"github.com/angelmondragon/matmaster-backend/pkg/logger"
	"github.com/angelmondragon/matmaster-backend/pkg/migrate"
	"github.com/angelmondragon/matmaster-backend/pkg/security"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed-admin"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed-admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":   cfg.App.Env,
		"email": cfg.Admin.Email,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	created, userID, err := seed(ctx, users.NewRepository(dbClient.DB()), security.NewHasher(cfg.Password), cfg.Admin)
	if err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}

	ctx = logg.WithField(ctx, "user_id", userID)
	if created {
		logg.Info(ctx, "admin user created")
		return
	}
	logg.Info(ctx, "admin user already exists")
}
