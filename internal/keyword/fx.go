package keyword

import (
	"github.com/smallbiznis/gardenwatch/internal/keyword/repository"
	"github.com/smallbiznis/gardenwatch/internal/keyword/service"
	"go.uber.org/fx"
)

var Module = fx.Module("keyword.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
