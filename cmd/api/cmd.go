package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/GregMSThompson/dashboard-builder/internal/bootstrap"
	"github.com/GregMSThompson/dashboard-builder/internal/config"
	"github.com/GregMSThompson/dashboard-builder/internal/crypto"
	"github.com/GregMSThompson/dashboard-builder/internal/handlers"
	"github.com/GregMSThompson/dashboard-builder/internal/middleware"
	"github.com/GregMSThompson/dashboard-builder/internal/registry"
	"github.com/GregMSThompson/dashboard-builder/internal/response"
	"github.com/GregMSThompson/dashboard-builder/internal/router"
	"github.com/GregMSThompson/dashboard-builder/internal/services"
	"github.com/GregMSThompson/dashboard-builder/internal/store"
)

func exitOnError(message string, err error, log *slog.Logger) {
	if err != nil {
		log.Error(message, "error", err)
		os.Exit(1)
	}
}

func main() {
	// bootstrap
	cfg := config.New()
	bs, err := bootstrap.Run(cfg)
	exitOnError("bootstrap failed", err, bs.Log)
	defer bs.Close()

	// helpers
	var wrapper crypto.Wrapper
	if bs.KMS != nil {
		wrapper = crypto.NewKMS(bs.KMS, cfg.KMSKeyName)
	}
	passwords := crypto.NewPasswords(wrapper)
	reg := registry.New()

	// stores
	dstore := store.NewDashboardStore(bs.Firestore)
	cstore := store.NewComponentStore(bs.Firestore)
	rstore := store.NewRecordStore(bs.Firestore)

	// services
	dserv := services.NewDashboardService(dstore, cstore, passwords)
	cserv := services.NewComponentService(cstore, dserv, rstore, reg)
	rserv := services.NewRecordService(rstore, cstore, dserv)

	// response handler
	rh := response.New(bs.Log)

	// dependencies
	deps := new(handlers.Deps)
	deps.Log = bs.Log
	deps.ResponseHandler = rh
	deps.DashboardSvc = dserv
	deps.ComponentSvc = cserv
	deps.RecordSvc = rserv
	deps.Catalog = reg

	// metrics
	promReg := prometheus.NewRegistry()
	promReg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// router
	r := router.NewRouter(deps, router.Options{
		Auth:        middleware.NewMiddleware(bs.Firebase),
		CORSOrigins: cfg.CORSOrigins,
		Registry:    promReg,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			bs.Log.Error("shutdown failed", "error", err)
		}
	}()

	bs.Log.Info("listening", "addr", srv.Addr, "kms", bs.KMS != nil)
	err = srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	exitOnError("server start failed", err, bs.Log)
}
