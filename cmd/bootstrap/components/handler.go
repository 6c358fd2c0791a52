package components

import (
	"buildquote/internal/handler"
	"buildquote/internal/handler/api"
	"buildquote/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewRfqHandler,
		api.NewQuoteHandler,
		api.NewNotificationHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
