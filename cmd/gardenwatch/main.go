package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gardenwatch/internal/auth"
	"github.com/smallbiznis/gardenwatch/internal/authorization"
	"github.com/smallbiznis/gardenwatch/internal/cache"
	"github.com/smallbiznis/gardenwatch/internal/clock"
	"github.com/smallbiznis/gardenwatch/internal/config"
	"github.com/smallbiznis/gardenwatch/internal/keyword"
	"github.com/smallbiznis/gardenwatch/internal/migration"
	"github.com/smallbiznis/gardenwatch/internal/milestone"
	"github.com/smallbiznis/gardenwatch/internal/observability"
	"github.com/smallbiznis/gardenwatch/internal/profile"
	"github.com/smallbiznis/gardenwatch/internal/providers"
	"github.com/smallbiznis/gardenwatch/internal/ratelimit"
	"github.com/smallbiznis/gardenwatch/internal/server"
	"github.com/smallbiznis/gardenwatch/internal/subscription"
	"github.com/smallbiznis/gardenwatch/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		cache.Module,
		providers.Module,

		// Functional Domains
		auth.Module,
		keyword.Module,
		milestone.Module,
		subscription.Module,
		profile.Module,
		authorization.Module,
		ratelimit.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
