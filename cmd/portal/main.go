package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"

	"github.com/hydrovia/portal-gateway/auth"
	"github.com/hydrovia/portal-gateway/auth/notify"
	"github.com/hydrovia/portal-gateway/internal/config"
	"github.com/hydrovia/portal-gateway/plantapi"
	"github.com/hydrovia/portal-gateway/server"
	"github.com/hydrovia/portal-gateway/session/filestore"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	store, err := filestore.New(c.GetDataFolder())
	if err != nil {
		return fmt.Errorf("filestore.New: %w", err)
	}

	notifier := notify.New()
	manager, err := auth.NewManager(store, notifier)
	if err != nil {
		return fmt.Errorf("auth.NewManager: %w", err)
	}

	monitor, err := auth.NewMonitor(manager,
		auth.WithCheckInterval(c.GetExpiryCheckInterval()),
		auth.WithLogoutDelay(c.GetLogoutDelay()),
	)
	if err != nil {
		return fmt.Errorf("auth.NewMonitor: %w", err)
	}

	api, err := plantapi.NewClient(c.GetPlantAPIBaseURL(), plantapi.WithTimeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("plantapi.NewClient: %w", err)
	}

	srv, err := server.New(c, manager, api, notifier)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	monitor.Start(monitorCtx)

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()

	stopMonitor()
	monitor.Wait()
	returnError = shutdown(httpServer)
	return returnError
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
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
