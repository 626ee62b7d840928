package auth

import (
	"github.com/smallbiznis/agencydesk/internal/auth/repository"
	"github.com/smallbiznis/agencydesk/internal/auth/service"
	"github.com/smallbiznis/agencydesk/internal/auth/token"
	"go.uber.org/fx"
)

var Module = fx.Module("auth.gate",
	fx.Provide(repository.New),
	fx.Provide(token.Provide),
	fx.Provide(service.New),
	fx.Invoke(service.RegisterBootstrap),
)
