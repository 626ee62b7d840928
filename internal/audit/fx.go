package audit

import (
	"github.com/smallbiznis/agencydesk/internal/audit/repository"
	"github.com/smallbiznis/agencydesk/internal/audit/service"
	"go.uber.org/fx"
)

// Module exposes the audit trail. The repository stays private; other
// modules write through Service.Record.
var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide, fx.Private),
	fx.Provide(service.NewService),
)
