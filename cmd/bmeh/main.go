package main

import (
	"context"
	"log/slog"

	"bmeh/config"
	"bmeh/internal/delivery"
	"bmeh/internal/delivery/http"
	"bmeh/internal/delivery/http/router/handler"
	"bmeh/internal/infra/auth"
	logs "bmeh/internal/infra/log"
	"bmeh/internal/infra/persistence/postgres"
	"bmeh/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle
	fx.Shutdowner

	Logger     *slog.Logger
	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectHandler(),
		injectDelivery(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Provide(
		postgres.NewUserRepository,
		postgres.NewTransactionManager,
	)
}

func injectService() fx.Option {
	return fx.Provide(
		auth.NewBcryptHasher,
	)
}

func injectUsecase() fx.Option {
	return fx.Provide(
		impl.NewUserService,
	)
}

func injectHandler() fx.Option {
	return fx.Provide(
		handler.NewUserHandler,
	)
}

func injectDelivery() fx.Option {
	return fx.Provide(
		fx.Annotate(
			http.NewServer,
			fx.ResultTags(`group:"deliveries"`),
		),
	)
}

// startServer launches every delivery once the application has started and
// shuts the application down if one of them stops with an error.
func startServer(params startServerParams) {
	serveCtx, cancel := context.WithCancel(context.Background())

	params.Append(fx.Hook{
		OnStart: func(context.Context) error {
			for _, d := range params.Deliveries {
				go func() {
					if err := d.Serve(serveCtx); err != nil {
						params.Logger.Error("Failed to start server", slog.Any("error", err))
						_ = params.Shutdown(fx.ExitCode(1))
					}
				}()
			}

			return nil
		},
		OnStop: func(context.Context) error {
			cancel()

			return nil
		},
	})
}
