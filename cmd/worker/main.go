package main

import (
	"context"
	"log"

	"github.com/eslamene/Meen-Ma3ana-sub004/internal/app/bootstrap"
)

// Worker process entrypoint.
// Data flow:
// 1) Load config.
// 2) Build app wiring.
// 3) Start consumers/schedulers (goal closure sweep, notification delivery).
func main() {
	log.Println("meen-ma3ana worker starting")
	app, err := bootstrap.BuildWorker()
	if err != nil {
		log.Fatalf("bootstrap worker failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("worker shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("meen-ma3ana worker stopped with error: %v", err)
	}
}
