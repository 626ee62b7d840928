package mandate

import (
	"github.com/smallbiznis/agencydesk/internal/mandate/repository"
	"github.com/smallbiznis/agencydesk/internal/mandate/service"
	"go.uber.org/fx"
)

var Module = fx.Module("mandate.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
