package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/db2zw/x6100-gui/pkg/logging"
	"github.com/db2zw/x6100-gui/pkg/radio"
	"github.com/db2zw/x6100-gui/pkg/storage"
)

// handleGetStatus returns daemon health
func (d *Daemon) handleGetStatus(c *gin.Context) {
	qsoLog := "available"
	if d.store == nil {
		qsoLog = "unavailable"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "running",
		"version":  Version,
		"callsign": d.config.Station.Callsign,
		"grid":     d.config.Station.Grid,
		"uptime":   int(time.Since(d.started).Seconds()),
		"cat":      d.engine.Status(),
		"qso_log":  qsoLog,
	})
}

// handleGetRadio returns the current radio state
func (d *Daemon) handleGetRadio(c *gin.Context) {
	c.JSON(http.StatusOK, d.state.Snapshot())
}

// handleSetFrequency tunes the active VFO
func (d *Daemon) handleSetFrequency(c *gin.Context) {
	var req struct {
		Frequency int64 `json:"frequency" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Frequency <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "frequency must be positive"})
		return
	}

	d.state.TuneActive(req.Frequency)
	d.state.Notify()

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"frequency": req.Frequency,
	})
}

// handleSetMode changes the active VFO mode
func (d *Daemon) handleSetMode(c *gin.Context) {
	var req struct {
		Mode string `json:"mode" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, ok := radio.ParseMode(req.Mode)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown mode: " + req.Mode})
		return
	}

	d.state.SetMode(d.state.ActiveVFO(), mode)
	d.state.Notify()

	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"mode":   mode.String(),
	})
}

// handleGetQSOLog returns recent logged contacts
func (d *Daemon) handleGetQSOLog(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "QSO log unavailable"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	records, err := d.store.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}

// handleLogQSO saves one contact to the log
func (d *Daemon) handleLogQSO(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "QSO log unavailable"})
		return
	}

	var rec storage.Record
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	if rec.LocalCall == "" {
		rec.LocalCall = d.config.Station.Callsign
	}
	if rec.LocalGrid == "" {
		rec.LocalGrid = d.config.Station.Grid
	}

	if err := d.store.SaveRecord(rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "logged"})
}

// handleSearchWorked checks whether a station was worked before
func (d *Daemon) handleSearchWorked(c *gin.Context) {
	if d.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "QSO log unavailable"})
		return
	}

	callsign := c.Query("callsign")
	if callsign == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "callsign is required"})
		return
	}

	status, err := d.store.SearchWorked(callsign, c.Query("mode"), c.Query("band"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	worked := "no"
	switch status {
	case storage.WorkedYes:
		worked = "yes"
	case storage.WorkedSameMode:
		worked = "same_mode"
	}

	c.JSON(http.StatusOK, gin.H{
		"callsign": callsign,
		"worked":   worked,
	})
}

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for development
	},
}

// handleEventsWebSocket streams radio state snapshots to the client
func (d *Daemon) handleEventsWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warnf("daemon", "WebSocket upgrade failed: %v", err)
		return
	}

	// The initial snapshot goes out under the hub lock so the pump cannot
	// write to the same connection at the same time
	if err := d.hub.registerAndSync(conn, d.state.Snapshot()); err != nil {
		return
	}
	logging.Debug("daemon", "WebSocket client connected")

	// The hub owns writes; this loop only watches for the client leaving
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				d.hub.unregister(conn)
				return
			}
		}
	}()
}
