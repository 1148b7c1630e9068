package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// RunForwarder runs only the outbox forwarder loop, for deployments that
// keep dispatch out of the API process.
func RunForwarder(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	inf, err := bootstrap(ctx, "forwarder")
	if err != nil {
		return err
	}
	defer inf.close()

	return inf.outboxService().Run(ctx)
}
