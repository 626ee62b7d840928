package contract

import (
	"github.com/smallbiznis/agencydesk/internal/contract/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("contract.repository",
	fx.Provide(repository.Provide),
)
