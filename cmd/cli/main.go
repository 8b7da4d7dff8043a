package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/avetisovm/amora/internal/buildinfo"
	"github.com/avetisovm/amora/internal/client/cli"
	"github.com/avetisovm/amora/internal/client/config"
	"github.com/avetisovm/amora/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	logger := logging.NewDefault()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
