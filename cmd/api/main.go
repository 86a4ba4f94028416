// Command api runs the resource server.
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
	cfg, err := ranger.LoadAPIConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rng, err := ranger.NewAPI(ctx, cfg)
	if err != nil {
		return err
	}

	return rng.Guide()
}
