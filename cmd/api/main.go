package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"electrostore/internal/config"
	"electrostore/internal/db"
	"electrostore/internal/httpserver"
	"electrostore/internal/logger"
	"electrostore/internal/metrics"
	cartrepo "electrostore/internal/repository/cart"
	productrepo "electrostore/internal/repository/product"
	tokenrepo "electrostore/internal/repository/token"
	userrepo "electrostore/internal/repository/user"
	cartsvc "electrostore/internal/service/cart"
	productsvc "electrostore/internal/service/product"
	usersvc "electrostore/internal/service/user"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zlog, cleanup, err := logger.New(cfg.Production)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = cleanup() }()

	metrics.MustRegister()

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.Postgres.DSN, cfg.Postgres.MaxConns)
	if err != nil {
		zlog.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, zlog)
	cartRepo := cartrepo.NewPostgres(dbpool, zlog)
	userRepo := userrepo.NewPostgres(dbpool, zlog)
	tokenRepo := tokenrepo.NewPostgres(dbpool)

	productService := productsvc.New(productRepo, cartRepo, zlog)
	cartService := cartsvc.New(cartRepo, productRepo, zlog)
	userService := usersvc.New(userRepo, tokenRepo, cfg.Auth.AccessTTL, zlog)

	srv := httpserver.New(cfg.HTTP.Addr, zlog, dbpool, httpserver.Deps{
		CartSvc:    cartService,
		ProductSvc: productService,
		UserSvc:    userService,
	}, cfg.HTTP.AllowOrigins)

	serverErr := make(chan error, 1)
	go func() {
		zlog.Infof("starting http server on %s", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		zlog.Infof("received signal %s, shutting down", sig)
	case err := <-serverErr:
		zlog.Errorf("server error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Errorf("graceful shutdown failed: %v", err)
	} else {
		zlog.Infof("server stopped")
	}
}
