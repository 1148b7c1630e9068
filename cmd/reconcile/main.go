// Command reconcile inspects events whose delivery was exhausted.
//
// Without flags it lists unresolved dead letters. With -requeue <id> it moves
// that dead letter's event back to PENDING so the forwarder retries it, and
// marks the dead letter resolved.
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/heartmarshall/novelnest-inventory/internal/app"
)

func main() {
	var opts app.ReconcileOptions
	flag.StringVar(&opts.RequeueID, "requeue", "", "dead letter id to requeue")
	flag.BoolVar(&opts.All, "all", false, "include resolved dead letters")
	flag.IntVar(&opts.Limit, "limit", 100, "maximum number of dead letters to list")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := app.Reconcile(ctx, os.Stdout, opts); err != nil {
		log.Fatalf("reconcile: %v", err)
	}
}
