package coolerd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/icetrail/coolerd/vertex"
	"github.com/mdouchement/logger"
)

type Controller struct {
	cooler   Cooler
	events   chan event
	listener net.Listener
	ticker   *time.Ticker
	active   Sample
}

func New(cfg Config, cooler Cooler) (*Controller, error) {
	c := &Controller{
		cooler: cooler,
		events: make(chan event, 10),
		ticker: time.NewTicker(cfg.Polling.Duration),
	}

	err := os.MkdirAll(filepath.Dir(cfg.Socket), 0o755)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	if _, err := os.Stat(cfg.Socket); err == nil {
		fmt.Printf("Removing existing %s\n", cfg.Socket)
		os.Remove(cfg.Socket)
	}
	c.listener, err = net.Listen("unix", cfg.Socket)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	return c, nil
}

// Apply pushes the configured profiles, colors and brightness to the
// device. Called once at startup, the firmware keeps them afterwards.
func (c *Controller) Apply(ctx context.Context, cfg Config) error {
	log := logger.LogWith(ctx)

	for _, name := range slices.Sorted(maps.Keys(cfg.Profiles)) {
		points := cfg.Profiles[name]

		channel, err := vertex.ParseChannel(name)
		if err != nil {
			return err
		}

		log.Infof("Programming the %s speed profile: %d points", name, len(points))
		if err := c.cooler.SetSpeedProfile(channel, points); err != nil {
			return fmt.Errorf("profile %s: %w", name, err)
		}
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Colors)) {
		channel, err := vertex.ParseLightChannel(name)
		if err != nil {
			return err
		}

		colors := slices.Repeat([]vertex.Color{cfg.Colors[name]}, vertex.LEDCount(channel))
		if err := c.cooler.SetColor(channel, colors); err != nil {
			return fmt.Errorf("color %s: %w", name, err)
		}
	}

	if cfg.Brightness != nil {
		if err := c.cooler.SetBrightness(*cfg.Brightness); err != nil {
			return fmt.Errorf("brightness: %w", err)
		}
	}

	return nil
}

func (c *Controller) Launch(ctx context.Context) {
	log := logger.LogWith(ctx)

	go c.eventLoop(ctx)

	http.HandleFunc("/monitor", c.monitor(log))
	go func() {
		for {
			log.Info("Starting HTTP server on ", c.listener.Addr().String())
			err := http.Serve(c.listener, nil)
			if err != nil {
				log.WithError(err).Error("Could not serve HTTP")
			}
			time.Sleep(2 * time.Second)
		}
	}()

	go c.poll(log)

	go func() {
		<-ctx.Done()
		c.ticker.Stop()
		if err := c.listener.Close(); err != nil {
			log.WithError(err).Error("Could not close socket listener")
		}
		if err := os.Remove(c.listener.Addr().String()); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.WithError(err).Errorf("Could not remove socket %s", c.listener.Addr().String())
		}

		close(c.events)
	}()
}

func (c *Controller) poll(log logger.Logger) {
	for range c.ticker.C {
		status, err := c.cooler.Status()
		if err != nil {
			log.WithError(err).Error("Could not read cooler status")
			continue
		}

		c.events <- event{name: eventUpdateStatus, sample: Sample{
			At:     time.Now(),
			Device: c.cooler.Name(),
			Status: *status,
		}}
	}
}

func (c *Controller) eventLoop(ctx context.Context) {
	log := logger.LogWith(ctx)
	watchers := map[int64]chan<- []byte{}

	for e := range c.events {
		switch e.name {
		case eventUpdateStatus:
			if moved(c.active.Status, e.sample.Status) {
				// Only log when readings changed to avoid flooding the logs.
				s := e.sample.Status
				log.Infof("Liquid %.1f°C - pump %d RPM (%d%%) - fan %d RPM (%d%%)",
					s.Liquid, s.PumpRPM, s.PumpDuty, s.FanRPM, s.FanDuty)
			}
			c.active = e.sample

			c.events <- event{name: eventRefreshWatchers}

		case eventRefreshWatchers:
			if c.active.At.IsZero() {
				continue // Nothing polled yet.
			}

			payload, err := json.Marshal(c.active)
			if err != nil {
				log.WithError(err).Error("Could not serialize sample") // Should never happen
				continue
			}

			for _, watcher := range watchers {
				watcher <- payload
			}
		case eventWatch:
			watchers[e.monitorID] = e.monitor
			c.events <- event{name: eventRefreshWatchers}
		case eventUnwatch:
			close(watchers[e.monitorID])
			delete(watchers, e.monitorID)
		}
	}
}

// moved reports whether a reading differs enough to be worth a log
// line. RPMs jitter a few units around their target.
func moved(prev, next vertex.Status) bool {
	const tolerance = 5

	if rpmDelta(prev.PumpRPM, next.PumpRPM) > tolerance || rpmDelta(prev.FanRPM, next.FanRPM) > tolerance {
		return true
	}

	return prev.Liquid != next.Liquid || prev.PumpDuty != next.PumpDuty || prev.FanDuty != next.FanDuty
}

func rpmDelta(a, b uint16) uint16 {
	if a > b {
		return a - b
	}
	return b - a
}

func (c *Controller) monitor(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		log.Info("Client connected")

		// Set http headers required for SSE.
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		disconnected := r.Context().Done()

		id := genID()
		ch := make(chan []byte, 20)
		c.events <- event{name: eventWatch, monitorID: id, monitor: ch}

		rc := http.NewResponseController(w)
		for {
			select {
			case <-disconnected:
				log.Info("Client disconnected")
				c.events <- event{name: eventUnwatch, monitorID: id}
				return
			case payload := <-ch:
				_, err := w.Write(append(payload, '\n', '\n'))
				if err != nil {
					log.WithError(err).Error("Could not write monitor SSE payload")
					return
				}

				err = rc.Flush()
				if err != nil {
					log.WithError(err).Error("Could not flush monitor SSE payload")
					return
				}
			}
		}
	}
}
