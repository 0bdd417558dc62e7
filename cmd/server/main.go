package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/LVRodrigues/fpa-management/claims"
	"github.com/LVRodrigues/fpa-management/internal/config"
	"github.com/LVRodrigues/fpa-management/internal/logging"
	"github.com/LVRodrigues/fpa-management/server"
	"github.com/LVRodrigues/fpa-management/tokenstore"
	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()
	c := config.New()
	logging.Setup(c.GetEnv(), c.GetLogLevel())

	for {
		if err := run(c); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run(c config.Config) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	displayAppname(c.GetAppName())

	storage, err := tokenstore.Open(c)
	if err != nil {
		return fmt.Errorf("[main run] failed to open token storage: %w", err)
	}
	if closer, ok := storage.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if pinger, ok := storage.(interface{ Ping(context.Context) error }); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("[main run] token storage unreachable: %w", err)
		}
	}
	extractor, err := claims.NewExtractor(ctx, c.GetVerifyTokens(), c.GetKeycloakIssuer(), c.GetKeycloakClientID())
	if err != nil {
		return fmt.Errorf("[main run] failed to create token verifier: %w", err)
	}

	handler, err := server.New(c, storage, server.WithExtractor(extractor))
	if err != nil {
		return fmt.Errorf("[main run] failed to create server: %w", err)
	}

	log.Info().
		Str("env", c.GetEnv()).
		Str("version", c.GetVersion()).
		Str("storage", c.GetTokenStorage()).
		Str("issuer", c.GetKeycloakIssuer()).
		Bool("verify_tokens", c.GetVerifyTokens()).
		Msg("Starting")

	httpServer := &http.Server{Addr: c.GetPort(), Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- listenAndServe(httpServer)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(httpServer)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
