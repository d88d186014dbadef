package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fusebox-party/fusebox/pkg/api"
	"github.com/fusebox-party/fusebox/pkg/log"
	"github.com/fusebox-party/fusebox/pkg/network"
	"github.com/fusebox-party/fusebox/pkg/sessions"
	"github.com/fusebox-party/fusebox/pkg/version"
	"github.com/fusebox-party/fusebox/pkg/workers"
)

func main() {
	port := flag.Int("port", 8080, "HTTP port to listen on")
	allowedOrigin := flag.String("allowed-origin", "*", "Origin allowed to connect")
	certFile := flag.String("cert-file", "", "TLS certificate file")
	keyFile := flag.String("key-file", "", "TLS key file")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := sessions.NewRegistry()

	wsServer := network.NewWSServer(network.NewWSServerOptions{
		Registry:      registry,
		AllowedOrigin: *allowedOrigin,
	})

	var tlsConfig *api.TLSConfig
	if *certFile != "" && *keyFile != "" {
		tlsConfig = &api.TLSConfig{
			CertFile: *certFile,
			KeyFile:  *keyFile,
		}
	}
	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:          *port,
		TLS:           tlsConfig,
		Registry:      registry,
		WSServer:      wsServer,
		AllowedOrigin: *allowedOrigin,
	})
	go apiServer.Start()

	tickWorker := workers.NewTickWorker(workers.NewTickWorkerOptions{
		Registry: registry,
		Interval: workers.DefaultTickInterval,
	})
	go tickWorker.Start(ctx)

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("Failed to stop API server: %v", err)
	}
}
