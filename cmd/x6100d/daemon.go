package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/db2zw/x6100-gui/pkg/cat"
	"github.com/db2zw/x6100-gui/pkg/config"
	"github.com/db2zw/x6100-gui/pkg/logging"
	"github.com/db2zw/x6100-gui/pkg/radio"
	"github.com/db2zw/x6100-gui/pkg/serialport"
	"github.com/db2zw/x6100-gui/pkg/storage"
)

// Daemon ties the CAT engine, radio state, QSO log and web interface
// together for the lifetime of the process.
type Daemon struct {
	config *config.Config
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	state     *radio.State
	engine    *cat.Engine
	store     *storage.QSOStore
	hub       *eventHub
	serial    io.ReadWriteCloser
	webServer *http.Server
	started   time.Time
}

// NewDaemon creates the daemon from configuration. A missing serial
// device or QSO database degrades the matching feature instead of
// failing the whole process.
func NewDaemon(cfg *config.Config) (*Daemon, error) {
	ctx, cancel := context.WithCancel(context.Background())

	daemon := &Daemon{
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		hub:    newEventHub(),
	}

	store, err := storage.NewQSOStore(cfg.Storage.DatabasePath)
	if err != nil {
		logging.Error("daemon", fmt.Sprintf("QSO log unavailable: %v", err))
	} else {
		daemon.store = store
	}

	daemon.state = radio.NewState(radio.DefaultBands(), daemon.hub)

	port, err := serialport.Open(cfg.CAT.Device, cfg.CAT.BaudRate)
	if err != nil {
		logging.Error("daemon", fmt.Sprintf("CAT serial port unavailable: %v", err))
	} else {
		daemon.serial = port
	}

	// A nil port parks the engine in a degraded state
	var rw io.ReadWriter
	if daemon.serial != nil {
		rw = daemon.serial
	}
	daemon.engine = cat.New(rw, daemon.state, cfg.CIVAddress())

	if err := daemon.setupWebServer(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to setup web server: %w", err)
	}

	return daemon, nil
}

// Start starts the CAT engine, the event pump and the web server.
func (d *Daemon) Start() error {
	d.started = time.Now()

	go d.engine.Run()

	if d.store != nil && d.config.Storage.ADIFImportPath != "" {
		d.store.ImportADIF(d.config.Storage.ADIFImportPath, d.config.Station.Callsign)
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.hub.pump(d.ctx, d.state)
	}()

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		addr := fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port)
		logging.Info("daemon", fmt.Sprintf("Starting web server on %s", addr))
		if err := d.webServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("daemon", fmt.Sprintf("Web server error: %v", err))
		}
	}()

	return nil
}

// Stop stops the daemon gracefully. The CAT engine has no stop of its
// own; closing the serial port unblocks its read loop for process exit.
func (d *Daemon) Stop() error {
	logging.Info("daemon", "Stopping daemon...")

	d.cancel()

	if d.webServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.webServer.Shutdown(ctx); err != nil {
			logging.Error("daemon", fmt.Sprintf("Web server shutdown error: %v", err))
		}
	}

	if d.serial != nil {
		d.serial.Close()
	}
	if d.store != nil {
		d.store.Close()
	}

	d.wg.Wait()

	logging.Info("daemon", "Daemon stopped")
	return nil
}

// setupWebServer initializes the web server and routes
func (d *Daemon) setupWebServer() error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.GET("/status", d.handleGetStatus)
		api.GET("/radio", d.handleGetRadio)
		api.PUT("/radio/frequency", d.handleSetFrequency)
		api.PUT("/radio/mode", d.handleSetMode)
		api.GET("/qso", d.handleGetQSOLog)
		api.POST("/qso", d.handleLogQSO)
		api.GET("/qso/worked", d.handleSearchWorked)
		api.GET("/events", d.handleEventsWebSocket)
	}

	addr := fmt.Sprintf("%s:%d", d.config.Web.BindAddress, d.config.Web.Port)
	d.webServer = &http.Server{
		Addr:    addr,
		Handler: router,
	}

	return nil
}
