package expense

import (
	"github.com/smallbiznis/agencydesk/internal/expense/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("expense.repository",
	fx.Provide(repository.Provide),
)
