// Command server runs the book inventory HTTP API together with the
// in-process outbox forwarder (outbox.forwarder_enabled).
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log"

	"github.com/heartmarshall/novelnest-inventory/internal/app"
)

func main() {
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("server: %v", err)
	}
}
