package invoice

import (
	"github.com/smallbiznis/agencydesk/internal/invoice/numbering"
	"github.com/smallbiznis/agencydesk/internal/invoice/repository"
	"github.com/smallbiznis/agencydesk/internal/invoice/service"
	"go.uber.org/fx"
)

// Module provides invoice storage, the number allocator used by
// provisioning, and the status service behind the invoice routes.
var Module = fx.Module("invoice.service",
	fx.Provide(
		repository.Provide,
		numbering.Provide,
		service.NewService,
	),
)
