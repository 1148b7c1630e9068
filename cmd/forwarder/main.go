// Command forwarder publishes pending outbox events to the broker. It runs
// the same loop as the server's in-process forwarder, for deployments that
// keep dispatch out of the API process (set outbox.forwarder_enabled=false
// on the API side).
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/heartmarshall/novelnest-inventory/internal/app"
)

func main() {
	if err := app.RunForwarder(context.Background()); err != nil {
		log.Fatalf("forwarder: %v", err)
	}
}
