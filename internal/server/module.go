package server

import (
	"net/http"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(
		NewRouter,
		NewHTTPServer,
	),
	fx.Invoke(func(*http.Server) {}),
)
