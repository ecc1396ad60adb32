package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"libraryManagement/internal/config"
	"libraryManagement/internal/db"
	grpcserver "libraryManagement/internal/grpc"
	"libraryManagement/internal/httpapi"
	"libraryManagement/internal/logging"
	"libraryManagement/internal/service"
	"libraryManagement/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	log.Info("configuration loaded", "config", cfg.String())

	d, err := db.OpenWithOptions(cfg.Database.Driver, cfg.Database.DSN, db.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		log.Error("open db", "err", err)
		os.Exit(1)
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.Error("close db", "err", err)
		}
	}()

	publishers := repository.NewPublisherRepository(d)
	authors := repository.NewAuthorRepository(d)
	books := repository.NewBookRepository(d)
	h := httpapi.NewHandler(httpapi.Services{
		Authors:     service.NewAuthorService(authors, log),
		Books:       service.NewBookService(books, publishers, log),
		BookAuthors: service.NewBookAuthorService(books, authors, log),
		Employees:   service.NewEmployeeService(repository.NewEmployeeRepository(d), log),
		Publishers:  service.NewPublisherService(publishers, log),
		Readers:     service.NewReaderService(repository.NewReaderRepository(d), log),
		Circulation: service.NewCirculationService(repository.NewCirculationRepository(d), log),
	}, log)

	stopHTTP, err := httpapi.StartHTTP(cfg.HTTP, h, log)
	if err != nil {
		log.Error("start http", "err", err)
		os.Exit(1)
	}
	stopGRPC, err := grpcserver.StartGRPC(cfg.GRPC, d, log)
	if err != nil {
		log.Error("start grpc", "err", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	log.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := stopHTTP(ctx); err != nil {
		log.Error("http shutdown", "err", err)
	}
	if err := stopGRPC(ctx); err != nil {
		log.Error("grpc shutdown", "err", err)
	}
}
