package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	coremon "github.com/kilianp07/enginepool/core/monitoring"
	coremqtt "github.com/kilianp07/enginepool/core/mqtt"
	"github.com/kilianp07/enginepool/core/schedule"
	"github.com/kilianp07/enginepool/infra/logger"
)

// SchedulePublisher streams the schedule of a run to an MQTT broker, one
// message per week. It implements schedule.Writer.
type SchedulePublisher struct {
	cli    pahoClient
	topics coremqtt.Topics
	qos    byte
	retain bool

	maxRetries int
	backoff    time.Duration
	logger     logger.Logger
}

// NewSchedulePublisher connects to the broker and announces the publisher
// online on the status topic.
func NewSchedulePublisher(cfg Config, runID string) (*SchedulePublisher, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	topics := coremqtt.Topics{Prefix: cfg.TopicPrefix, RunID: runID}
	opts, err := NewClientOptions(cfg, topics.Status())
	if err != nil {
		return nil, err
	}
	log := logger.New("mqtt-publisher")
	opts.OnConnect = func(paho.Client) { log.Infof("MQTT connected to %s", cfg.Broker) }
	opts.OnConnectionLost = func(_ paho.Client, err error) { log.Errorf("connection lost: %v", err) }
	opts.OnReconnecting = func(paho.Client, *paho.ClientOptions) { log.Warnf("reconnecting to MQTT broker") }

	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	p := &SchedulePublisher{
		cli:        c,
		topics:     topics,
		qos:        cfg.QoS,
		retain:     cfg.RetainSummary,
		maxRetries: cfg.MaxRetries,
		backoff:    time.Duration(cfg.BackoffMS) * time.Millisecond,
		logger:     log,
	}
	if err := p.publish(context.Background(), topics.Status(), []byte("online"), true); err != nil {
		p.logger.Warnf("status publish: %v", err)
	}
	return p, nil
}

// Topics returns the topic layout of the run.
func (p *SchedulePublisher) Topics() coremqtt.Topics { return p.topics }

// Append publishes the rows of one week. Rows of several weeks are split into
// one message per week.
func (p *SchedulePublisher) Append(ctx context.Context, rows []schedule.Row) error {
	for start := 0; start < len(rows); {
		end := start
		for end < len(rows) && rows[end].Week == rows[start].Week {
			end++
		}
		msg := coremqtt.WeekMessage{RunID: p.topics.RunID, Week: rows[start].Week, Rows: rows[start:end]}
		payload, err := json.Marshal(msg)
		if err != nil {
			return err
		}
		if err := p.publish(ctx, p.topics.Week(msg.Week), payload, false); err != nil {
			return err
		}
		start = end
	}
	return nil
}

// PublishSummary publishes the end-of-run summary.
func (p *SchedulePublisher) PublishSummary(ctx context.Context, s coremqtt.SummaryMessage) error {
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return p.publish(ctx, p.topics.Summary(), payload, p.retain)
}

func (p *SchedulePublisher) publish(ctx context.Context, topic string, payload []byte, retain bool) error {
	if p.cli == nil || !p.cli.IsConnected() {
		return coremqtt.ErrNotConnected
	}
	var publishErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		token := p.cli.Publish(topic, p.qos, retain, payload)
		token.Wait()
		publishErr = token.Error()
		if publishErr == nil {
			p.logger.Debugf("published %d bytes to %s", len(payload), topic)
			return nil
		}
		p.logger.Errorf("publish attempt %d to %s failed: %v", attempt+1, topic, publishErr)
		if attempt == p.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.backoff * time.Duration(1<<attempt)):
		}
	}
	coremon.CaptureException(publishErr, map[string]string{"module": "mqtt", "topic": topic})
	return fmt.Errorf("publish %s: %w", topic, publishErr)
}

// Close marks the publisher offline and disconnects.
func (p *SchedulePublisher) Close() error {
	if p.cli == nil || !p.cli.IsConnected() {
		return nil
	}
	if token := p.cli.Publish(p.topics.Status(), 1, true, []byte("offline")); token.Wait() && token.Error() != nil {
		p.logger.Warnf("status publish: %v", token.Error())
	}
	p.cli.Disconnect(250)
	return nil
}
