// Package relay pushes task, comment, and activity events to connected
// clients over NATS. The server can run embedded (with a websocket
// listener for browsers) or the relay can attach to an external NATS
// deployment. Events are published only after the corresponding store
// write has succeeded; delivery is best effort and clients resynchronize
// by refetching on mount or reconnect.
package relay

import (
	"encoding/json"
	"fmt"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/projectzen/board-api/internal/config"
	"github.com/projectzen/board-api/internal/metrics"
	"github.com/projectzen/board-api/internal/models"
)

// Publisher is the relay surface the service layer depends on.
type Publisher interface {
	TaskCreated(task *models.Task)
	TaskUpdated(task *models.Task)
	TaskDeleted(projectID, taskID uint64)
	NewComment(comment *models.Comment)
	ActionLogged(entry *models.ActionLog)
}

// Relay publishes board events over a NATS connection, optionally owning
// an embedded server.
type Relay struct {
	conn   *nats.Conn
	server *natsserver.Server
}

// New starts the relay. With cfg.Embed an in-process NATS server is
// started with both a client listener and a websocket listener; otherwise
// the relay connects to cfg.URL.
func New(cfg config.RelayConfig) (*Relay, error) {
	r := &Relay{}

	url := cfg.URL
	if cfg.Embed {
		opts := &natsserver.Options{
			Host: "0.0.0.0",
			Port: cfg.Port,
			Websocket: natsserver.WebsocketOpts{
				Host:  "0.0.0.0",
				Port:  cfg.WebsocketPort,
				NoTLS: true,
			},
		}

		server, err := natsserver.NewServer(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedded relay server: %w", err)
		}

		go server.Start()
		if !server.ReadyForConnections(5 * time.Second) {
			server.Shutdown()
			return nil, fmt.Errorf("embedded relay server not ready")
		}

		r.server = server
		url = server.ClientURL()
		log.Info().Int("port", cfg.Port).Int("websocket_port", cfg.WebsocketPort).
			Msg("embedded relay server started")
	}

	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
	)
	if err != nil {
		if r.server != nil {
			r.server.Shutdown()
		}
		return nil, fmt.Errorf("failed to connect to relay at %s: %w", url, err)
	}

	r.conn = conn
	return r, nil
}

// Conn exposes the underlying connection, mainly for tests.
func (r *Relay) Conn() *nats.Conn {
	return r.conn
}

// Close drains the connection and stops the embedded server if one is
// running.
func (r *Relay) Close() {
	if r.conn != nil {
		r.conn.Close()
	}
	if r.server != nil {
		r.server.Shutdown()
		r.server.WaitForShutdown()
	}
}

// TaskCreated publishes the resolved task into its project room.
func (r *Relay) TaskCreated(task *models.Task) {
	r.publish(ProjectSubject(task.ProjectID), EventTaskCreated, task)
}

// TaskUpdated publishes the resolved task into its project room.
func (r *Relay) TaskUpdated(task *models.Task) {
	r.publish(ProjectSubject(task.ProjectID), EventTaskUpdated, task)
}

// TaskDeleted publishes a deletion marker into the project room.
func (r *Relay) TaskDeleted(projectID, taskID uint64) {
	r.publish(ProjectSubject(projectID), EventTaskDeleted, map[string]uint64{"taskId": taskID})
}

// NewComment publishes the resolved comment into its task room.
func (r *Relay) NewComment(comment *models.Comment) {
	r.publish(TaskSubject(comment.TaskID), EventNewComment, comment)
}

// ActionLogged publishes an audit entry into the project room.
func (r *Relay) ActionLogged(entry *models.ActionLog) {
	r.publish(ProjectSubject(entry.ProjectID), EventActionLog, entry)
}

func (r *Relay) publish(subject, event string, data interface{}) {
	payload, err := json.Marshal(newEnvelope(event, data))
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("failed to encode relay event")
		return
	}

	if err := r.conn.Publish(subject, payload); err != nil {
		log.Error().Err(err).Str("subject", subject).Str("event", event).
			Msg("failed to publish relay event")
		return
	}

	metrics.RelayEventsPublished.WithLabelValues(event).Inc()
}
