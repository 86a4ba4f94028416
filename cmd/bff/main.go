// Command bff runs the Backend-for-Frontend.
package main

import (
	"context"
	"log"

	"github.com/xy-planning-network/relay/ranger"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := ranger.LoadBFFConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rng, err := ranger.NewBFF(ctx, cfg)
	if err != nil {
		return err
	}

	return rng.Guide()
}
