package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/meshdata/internal/api"
	"github.com/samcharles93/meshdata/internal/importer"
	"github.com/samcharles93/meshdata/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:      "serve",
		Usage:     "Serve loaded meshes over the inspection API",
		ArgsUsage: "[layout ...]",
		Flags: append(importFlags(),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, configFromContext(ctx), &addr)
			opts := importer.Options{NoMmap: noMmap, Writable: writable}

			store := api.NewMeshStore()
			server := api.NewServer(store, opts, log)
			defer func() { _ = server.Close(ctx) }()

			for _, path := range cmd.Args().Slice() {
				m, err := importer.Open(ctx, path, opts)
				if err != nil {
					return cli.Exit(fmt.Sprintf("error: open %s: %v", path, err), 1)
				}
				rec := store.Add(path, m, time.Now())
				log.Info("preloaded mesh", "id", rec.ID, "layout", path)
			}

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "meshes", store.Len())
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
