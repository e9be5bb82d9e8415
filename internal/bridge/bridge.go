// Package bridge streams editor events to an external monitoring endpoint
// over socket.io, so dashboards can follow workcell edits as they happen.
package bridge

import (
	"context"
	"fmt"
	"net/url"
	"sync/atomic"

	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"

	"github.com/open-rmf/rmf-workcell/internal/ctxlog"
)

// Monitor publishes editor events to a remote socket.io namespace. Publish is
// fire-and-forget: events are queued on a buffered channel and dropped with a
// log line when the bridge cannot keep up, so the editor loop never blocks on
// the network.
type Monitor struct {
	url       string
	namespace string
	events    chan event
	connected atomic.Bool
	io        *socket.Socket
	done      chan struct{}
}

type event struct {
	name    string
	payload map[string]any
}

// NewMonitor creates a monitor for the given endpoint without connecting.
func NewMonitor(rawURL, namespace string) *Monitor {
	return &Monitor{
		url:       rawURL,
		namespace: namespace,
		events:    make(chan event, 64),
		done:      make(chan struct{}),
	}
}

// Connect dials the endpoint and starts the forwarding loop. Events published
// before the connection is up stay queued until it is.
func (m *Monitor) Connect(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("url", m.url, "namespace", m.namespace)

	parsedURL, err := url.Parse(m.url)
	if err != nil {
		return fmt.Errorf("failed to parse bridge URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	m.io = manager.Socket(m.namespace, opts)

	m.io.On(types.EventName("connect"), func(...any) {
		m.connected.Store(true)
		logger.Info("Monitor bridge connected.", "sid", m.io.Id())
	})
	m.io.On(types.EventName("disconnect"), func(...any) {
		m.connected.Store(false)
		logger.Warn("Monitor bridge disconnected.")
	})
	m.io.On(types.EventName("connect_error"), func(errs ...any) {
		logger.Warn("Monitor bridge connection error.", "error", errs[0])
	})

	m.io.Connect()
	go m.forward(ctx)
	return nil
}

// Publish queues an event for delivery. It never blocks; if the queue is
// full the event is dropped.
func (m *Monitor) Publish(name string, payload map[string]any) {
	select {
	case m.events <- event{name: name, payload: payload}:
	default:
	}
}

func (m *Monitor) forward(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	for {
		select {
		case ev := <-m.events:
			if !m.connected.Load() {
				logger.Debug("Dropping monitor event, bridge not connected.", "event", ev.name)
				continue
			}
			m.io.Emit(ev.name, ev.payload)
		case <-m.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close disconnects from the endpoint and stops the forwarding loop.
func (m *Monitor) Close() {
	close(m.done)
	if m.io != nil {
		m.io.Disconnect()
	}
}
