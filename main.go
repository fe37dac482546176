package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/steamkit-go/cmframework/client"
	"github.com/steamkit-go/cmframework/directory"
	"github.com/steamkit-go/cmframework/ioloop"
	"github.com/steamkit-go/cmframework/modules/connect"
	"github.com/steamkit-go/cmframework/modules/friends"
	"github.com/steamkit-go/cmframework/modules/login"
	"github.com/steamkit-go/cmframework/modules/notifications"
	"github.com/steamkit-go/cmframework/modules/persona"
	"github.com/steamkit-go/cmframework/workdir"
)

const (
	defaultTransportType = "websockets"
	defaultCellID        = int32(0)
)

func main() {
	logger := newLogger()

	dir, err := workdir.Resolve()
	if err != nil {
		logger.Error("main: resolving working directory", "error", err)
		os.Exit(1)
	}

	ioLoop := ioloop.New(logger)
	ctx, cancel := context.WithCancel(context.Background())
	go ioLoop.Run(ctx)

	httpClient := http.DefaultClient
	resolver := directory.New(httpClient)

	client.RegisterModule(connect.New(resolver, httpClient, defaultTransportType, defaultCellID))
	client.RegisterModule(login.New(dir))
	client.RegisterModule(persona.New())
	client.RegisterModule(notifications.New())
	client.RegisterModule(friends.New())

	registry, err := client.NewRegistry(dir, ioLoop, logger)
	if err != nil {
		logger.Error("main: constructing account registry", "error", err)
		os.Exit(1)
	}
	defer registry.Close()
	ioLoop.WatchSignals(func() {
		registry.QuitAll()
		cancel()
	})

	if name, password := os.Getenv("STEAM_USERNAME"), os.Getenv("STEAM_PASSWORD"); name != "" && password != "" {
		registry.Create(name)
	}

	for _, info := range registry.Infos() {
		registry.LaunchAccount(info)
	}

	registry.WaitAll()
}

func newLogger() *slog.Logger {
	sink := &lumberjack.Logger{
		Filename:   "cmframework.log",
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
	}
	handler := slog.NewTextHandler(sink, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(handler)
}
