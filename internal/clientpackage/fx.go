package clientpackage

import (
	"github.com/smallbiznis/agencydesk/internal/clientpackage/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("clientpackage.repository",
	fx.Provide(repository.Provide),
)
