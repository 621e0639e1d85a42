//go:build integration

package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	coremqtt "github.com/kilianp07/enginepool/core/mqtt"
	"github.com/kilianp07/enginepool/core/schedule"
)

const mosquittoConf = "listener 1883\nallow_anonymous true\n"

// TestPublisherAgainstMosquitto streams a week to a real broker and reads it
// back with a plain subscriber.
func TestPublisherAgainstMosquitto(t *testing.T) {
	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "eclipse-mosquitto:2.0",
		ExposedPorts: []string{"1883/tcp"},
		Files: []tc.ContainerFile{{
			Reader:            stringsReader(mosquittoConf),
			ContainerFilePath: "/mosquitto/config/mosquitto.conf",
			FileMode:          0o644,
		}},
		WaitingFor: wait.ForListeningPort("1883/tcp"),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Fatalf("failed to start container: %v", err)
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "1883")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	broker := fmt.Sprintf("tcp://%s:%s", host, port.Port())

	got := make(chan coremqtt.WeekMessage, 1)
	sub := paho.NewClient(paho.NewClientOptions().AddBroker(broker).SetClientID("reader"))
	if tok := sub.Connect(); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscriber connect: %v", tok.Error())
	}
	defer sub.Disconnect(100)
	if tok := sub.Subscribe("it/run-it/schedule/+", 1, func(_ paho.Client, m paho.Message) {
		var msg coremqtt.WeekMessage
		if err := json.Unmarshal(m.Payload(), &msg); err == nil {
			got <- msg
		}
	}); tok.Wait() && tok.Error() != nil {
		t.Fatalf("subscribe: %v", tok.Error())
	}

	pub, err := NewSchedulePublisher(Config{Enabled: true, Broker: broker, TopicPrefix: "it", QoS: 1}, "run-it")
	if err != nil {
		t.Fatalf("publisher: %v", err)
	}
	defer pub.Close()
	rows := []schedule.Row{{Week: 1, Aircraft: "A_AV", Motor: "A", Cycles: 350}}
	if err := pub.Append(ctx, rows); err != nil {
		t.Fatalf("append: %v", err)
	}
	select {
	case msg := <-got:
		if msg.Week != 1 || len(msg.Rows) != 1 || msg.Rows[0].Cycles != 350 {
			t.Fatalf("unexpected message %+v", msg)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("timeout waiting for schedule message")
	}
}

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }
