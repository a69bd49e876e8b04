package main

import (
	"context"
	"net/http"

	"github.com/HarishV14/Local-library/pkg/auth"
	"github.com/HarishV14/Local-library/pkg/config"
	"github.com/HarishV14/Local-library/pkg/database"
	"github.com/HarishV14/Local-library/pkg/migrations"
	"github.com/HarishV14/Local-library/pkg/server"
	"github.com/HarishV14/Local-library/pkg/version"
	"github.com/HarishV14/Local-library/pkg/visits"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting local library", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Err(err).Fatal("database error")
	}

	group, err := migrations.BringUpToDate(ctx, db)
	if err != nil {
		log.Err(err).Fatal("migrations error")
	}
	if group.ID == 0 {
		log.Info("no new migrations to run")
	} else {
		log.Info("migrated to new group", logger.Data{"group_id": group.ID, "migration_names": group.Migrations.String()})
	}

	counter, err := visits.NewCounter(cfg, db, auth.TokenExpiry)
	if err != nil {
		log.Err(err).Fatal("visit counter error")
	}
	log.Info("visit counter ready", logger.Data{"session_store": cfg.SessionStore})

	srv, err := server.New(cfg, db, counter)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		log.Info("server started", logger.Data{"addr": srv.Addr})
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = counter.Close()
	if err != nil {
		log.Err(err).Error("visit counter close error")
	}

	err = db.Close()
	if err != nil {
		log.Err(err).Error("database close error")
	}
	log.Info("database closed")
}
