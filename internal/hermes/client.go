package hermes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const defaultPublishTimeout = 5 * time.Second

// Client publishes ranking and dataset events into the FORCERANK_EVENTS
// stream and delivers dataset reload requests.
type Client interface {
	Publish(ctx context.Context, subject string, evt Event) error
	SubscribeReload(handler func(DatasetReloadRequest)) error
	Close()
}

// NATSClient publishes through JetStream so every event is acknowledged by
// the stream before Publish returns. Reload requests arrive on a core
// subscription.
type NATSClient struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subs    []*nats.Subscription
	timeout time.Duration
	logger  *slog.Logger
}

var _ Client = (*NATSClient)(nil)

func NewNATSClient(ctx context.Context, url string, logger *slog.Logger) (*NATSClient, error) {
	nc, err := nats.Connect(url,
		nats.Name("forcerank"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logger.Info("nats reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("jetstream: %w", err)
	}

	c := &NATSClient{conn: nc, js: js, timeout: defaultPublishTimeout, logger: logger}
	if err := c.ensureStream(ctx); err != nil {
		logger.Warn("failed to ensure event stream", "stream", StreamName, "error", err)
	}
	return c, nil
}

func (c *NATSClient) ensureStream(ctx context.Context) error {
	maxAge, err := time.ParseDuration(StreamMaxAge)
	if err != nil {
		return fmt.Errorf("stream max age: %w", err)
	}
	_, err = c.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:       StreamName,
		Subjects:   StreamSubjects,
		MaxAge:     maxAge,
		Duplicates: DuplicateWindow,
	})
	return err
}

// Publish sends evt to subject and waits for the stream acknowledgement.
// The event id doubles as the JetStream message id, so a retried publish
// within DuplicateWindow is stored once.
func (c *NATSClient) Publish(ctx context.Context, subject string, evt Event) error {
	msg, err := NewMessage(subject, evt)
	if err != nil {
		return err
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ack, err := c.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if ack.Duplicate {
		c.logger.Debug("duplicate event dropped by stream", "subject", subject, "event_id", evt.MessageID())
	}
	return nil
}

// SubscribeReload calls handler for every well-formed request on
// SubjectDatasetReload. Malformed payloads are logged and dropped.
func (c *NATSClient) SubscribeReload(handler func(DatasetReloadRequest)) error {
	sub, err := c.conn.Subscribe(SubjectDatasetReload, func(msg *nats.Msg) {
		req, err := DecodeReloadRequest(msg.Data)
		if err != nil {
			c.logger.Warn("ignoring malformed reload request", "subject", msg.Subject, "error", err)
			return
		}
		handler(req)
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", SubjectDatasetReload, err)
	}
	c.subs = append(c.subs, sub)
	return nil
}

func (c *NATSClient) Close() {
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.conn.Close()
}

// NewMessage encodes evt as a JSON message carrying its event id in the
// Nats-Msg-Id header.
func NewMessage(subject string, evt Event) (*nats.Msg, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", subject, err)
	}
	msg := nats.NewMsg(subject)
	msg.Data = payload
	msg.Header.Set("Content-Type", "application/json")
	if id := evt.MessageID(); id != "" {
		msg.Header.Set(nats.MsgIdHdr, id)
	}
	return msg, nil
}

// DecodeReloadRequest parses a reload request. An empty payload is a valid
// anonymous request.
func DecodeReloadRequest(data []byte) (DatasetReloadRequest, error) {
	var req DatasetReloadRequest
	if len(data) == 0 {
		return req, nil
	}
	if err := json.Unmarshal(data, &req); err != nil {
		return DatasetReloadRequest{}, fmt.Errorf("decode reload request: %w", err)
	}
	return req, nil
}
