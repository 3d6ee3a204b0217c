// Package listener receives list events sent with PostgreSQL NOTIFY.
package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"

	"superlists/internal/domain/list"
)

const (
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
)

// EventListener calls handle for every list event NOTIFYed on channel,
// reconnecting until its context is cancelled or Stop is called.
type EventListener struct {
	connStr    string
	channel    string
	handle     func(list.Event)
	logger     *log.Logger
	shutdownCh chan struct{}
	done       chan struct{}
}

func NewEventListener(connStr, channel string, handle func(list.Event), logger *log.Logger) *EventListener {
	if logger == nil {
		logger = log.Default()
	}
	return &EventListener{
		connStr:    connStr,
		channel:    channel,
		handle:     handle,
		logger:     logger,
		shutdownCh: make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start begins listening in a background goroutine.
func (l *EventListener) Start(ctx context.Context) {
	go l.listen(ctx)
	l.logger.Info("event listener started", "channel", l.channel)
}

// Stop shuts the listener down and waits for it to exit.
func (l *EventListener) Stop() {
	close(l.shutdownCh)
	<-l.done
	l.logger.Info("event listener stopped", "channel", l.channel)
}

// Done is closed once the listener has exited.
func (l *EventListener) Done() <-chan struct{} {
	return l.done
}

func (l *EventListener) listen(ctx context.Context) {
	defer close(l.done)

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		default:
			l.connectAndListen(ctx)
		}

		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case <-time.After(reconnectInterval):
			l.logger.Info("reconnecting to PostgreSQL for notifications")
		}
	}
}

func (l *EventListener) connectAndListen(ctx context.Context) {
	pl := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			l.logger.Debug("connected to notification channel")
		case pq.ListenerEventDisconnected:
			l.logger.Warn("disconnected from notification channel", "err", err)
		case pq.ListenerEventReconnected:
			l.logger.Info("reconnected to notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			l.logger.Warn("notification connection attempt failed", "err", err)
		}
	})
	defer pl.Close()

	if err := pl.Listen(l.channel); err != nil {
		l.logger.Error("failed to listen", "channel", l.channel, "err", err)
		return
	}

	for {
		select {
		case <-l.shutdownCh:
			return
		case <-ctx.Done():
			return
		case n := <-pl.Notify:
			if n == nil {
				// Connection lost; reconnect.
				return
			}
			l.handleNotification(n)
		case <-time.After(pingInterval):
			go func() {
				if err := pl.Ping(); err != nil {
					l.logger.Warn("listener ping failed", "err", err)
				}
			}()
		}
	}
}

func (l *EventListener) handleNotification(n *pq.Notification) {
	var event list.Event
	if err := json.Unmarshal([]byte(n.Extra), &event); err != nil {
		l.logger.Warn("failed to parse notification payload", "channel", n.Channel, "err", err)
		return
	}
	l.handle(event)
}
