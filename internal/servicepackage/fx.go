package servicepackage

import (
	"github.com/smallbiznis/agencydesk/internal/servicepackage/repository"
	"github.com/smallbiznis/agencydesk/internal/servicepackage/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicepackage.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
