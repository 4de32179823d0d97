package milestone

import (
	"github.com/smallbiznis/gardenwatch/internal/milestone/domain"
	"github.com/smallbiznis/gardenwatch/internal/milestone/repository"
	"github.com/smallbiznis/gardenwatch/internal/milestone/service"
	"go.uber.org/fx"
)

var Module = fx.Module("milestone.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
	fx.Provide(func(s domain.Service) domain.LimitReader { return s }),
)
