// synctool runs the offline sync reconciler for a merchant terminal:
// it watches the local queue and replays pending sales/credits against
// the server whenever connectivity is available.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pores-backend/sync"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	var (
		cachePath = flag.String("cache", "pores-offline.db", "path to the local offline cache")
		serverURL = flag.String("server", envOr("PORES_SERVER_URL", "http://localhost:8080"), "server base URL")
		storeID   = flag.String("store", os.Getenv("PORES_STORE_ID"), "store id for the x-store-id header")
		once      = flag.Bool("once", false, "run a single sync pass and exit")
	)
	flag.Parse()

	if *storeID == "" {
		log.Fatal("store id required (-store or PORES_STORE_ID)")
	}

	queue, err := sync.OpenQueue(*cachePath)
	if err != nil {
		log.Fatalf("Failed to open offline cache: %v", err)
	}

	reconciler := sync.NewReconciler(queue, *serverURL, *storeID)

	if *once {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		synced, failed, err := reconciler.SyncPass(ctx)
		if err != nil {
			log.Fatalf("Sync pass failed: %v", err)
		}
		log.Printf("Sync pass finished: %d synced, %d still pending", synced, failed)
		return
	}

	reconciler.StartScheduler()
	defer reconciler.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("Shutting down")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
