package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/utpal03/portalkit/app"
	"github.com/utpal03/portalkit/config"
	"github.com/utpal03/portalkit/devserver"
	"github.com/utpal03/portalkit/log"
	"github.com/utpal03/portalkit/store/db"
	transporthttp "github.com/utpal03/portalkit/transport/http"
	"github.com/utpal03/portalkit/validator"
)

type serverConfig struct {
	Server   devserver.Config `json:"server" mapstructure:"server"`
	Database db.SQLiteConfig  `json:"database" mapstructure:"database"`
}

func main() {
	configPath := flag.String("config", "", "path to the config file (optional)")
	flag.Parse()

	logger := log.New(log.WithComponent("portal-devserver"))
	log.SetGlobalLogger(logger)

	var cfg serverConfig
	if *configPath != "" {
		dir, file := filepath.Split(*configPath)
		if dir == "" {
			dir = "."
		}

		v := viper.New()
		loader := config.NewFileLoader(file, []string{dir}, v, validator.Validate)
		if err := config.New(&cfg, config.WithViper(v), config.WithLoader(loader)).Load(); err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	if err := cfg.Server.Init(); err != nil {
		log.Fatal().Err(err).Msg("apply config defaults")
	}

	database, err := db.New(&cfg.Database, db.WithLogger(logger))
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}

	srv, err := devserver.New(cfg.Server, database, devserver.WithLogger(logger))
	if err != nil {
		log.Fatal().Err(err).Msg("create devserver")
	}

	httpServer := transporthttp.NewServer(cfg.Server.Addr, srv.Handler(),
		transporthttp.WithMeta(transporthttp.Meta{Name: "portal-devserver"}),
		transporthttp.WithMetricsOptions(transporthttp.MetricsOption{Enabled: true, EnabledGoCollector: true}),
		transporthttp.WithHealthOptions(transporthttp.HealthOption{Enabled: true}),
	)

	a := app.New(
		app.WithServer(httpServer),
		app.WithClose("devserver", func(context.Context) error {
			srv.Close()
			return nil
		}, 0),
		app.WithClose("database", func(context.Context) error {
			return database.Close()
		}, 0),
	)

	if err := a.Start(); err != nil {
		log.Error().Err(err).Msg("server exited")
		os.Exit(1)
	}
}
