package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/husnhira/storefront/internal/app/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.Run(ctx); err != nil {
		var cfgErr *api.ConfigError
		if errors.As(err, &cfgErr) {
			log.Printf("invalid configuration: %v", cfgErr)
			os.Exit(2)
		}
		log.Printf("storefront API stopped: %v", err)
		os.Exit(1)
	}
}
