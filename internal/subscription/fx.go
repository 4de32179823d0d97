package subscription

import (
	milestonedomain "github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/smallbiznis/gardenwatch/internal/subscription/domain"
	"github.com/smallbiznis/gardenwatch/internal/subscription/repository"
	"github.com/smallbiznis/gardenwatch/internal/subscription/service"
	"go.uber.org/fx"
)

var Module = fx.Module("subscription.service",
	fx.Provide(repository.Provide),
	fx.Provide(func(r domain.Repository) milestonedomain.ActiveUserCounter { return r }),
	fx.Provide(service.New),
)
