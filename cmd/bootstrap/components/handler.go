package components

import (
	"arc-storefront/internal/handler"
	"arc-storefront/internal/handler/api"
	"arc-storefront/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewReceiptHandler,
		api.NewStorefrontHandler,
		middleware.NewSessionMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
