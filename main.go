package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lesiontracker/tracker-server/config"
	"github.com/lesiontracker/tracker-server/route"
)

const (
	shutdownTimeout = time.Duration(10) * time.Second
)

func main() {
	config.SetupAll()

	e := route.NewHandler()
	e.HideBanner = true
	e.Debug = config.ServerConfig().Dump

	go func() {
		if err := e.Start(config.ServerConfig().Port); err != nil {
			logrus.WithError(err).Info("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to shutdown server")
	}
}
