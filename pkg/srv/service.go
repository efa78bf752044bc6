package srv

import (
	"context"

	"github.com/sandevgo/ctxengine/pkg/log"
)

type Service interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

func StartServices(ctx context.Context, services []Service) error {
	for _, service := range services {
		if err := service.Start(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Shutdown stops services in reverse start order. Failures are logged and do
// not stop the remaining services.
func Shutdown(ctx context.Context, services []Service) {
	for i := len(services) - 1; i >= 0; i-- {
		if err := services[i].Shutdown(ctx); err != nil {
			log.FromCtx(ctx).Error().Err(err).Msgf("%T failed to shutdown", services[i])
		}
	}
}

// closer adapts a Close-style function to Service. Start is a no-op.
type closer func() error

func (c closer) Start(context.Context) error { return nil }

func (c closer) Shutdown(context.Context) error {
	if c == nil {
		return nil
	}
	return c()
}

func NewCleanup(fn func() error) Service {
	return closer(fn)
}
