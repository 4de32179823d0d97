package main

import (
	"context"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/auth"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"github.com/smallbiznis/gardenwatch/internal/keyword"
	"github.com/smallbiznis/gardenwatch/internal/migration"
	"github.com/smallbiznis/gardenwatch/internal/milestone"
	"github.com/smallbiznis/gardenwatch/internal/observability"
	"github.com/smallbiznis/gardenwatch/internal/providers"
	"github.com/smallbiznis/gardenwatch/internal/subscription"
	"github.com/smallbiznis/gardenwatch/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// migrate applies the schema and bootstrap data, then exits.
func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		providers.Module,

		auth.Module,
		keyword.Module,
		milestone.Module,
		subscription.Module,

		migration.Module,
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Start(ctx); err != nil {
		zap.L().Error("migration failed", zap.Error(err))
		os.Exit(1)
	}
	if err := app.Stop(ctx); err != nil {
		zap.L().Warn("shutdown failed", zap.Error(err))
	}
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
