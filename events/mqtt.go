package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 3 * time.Second

// Publisher is the part of mqtt.Client the bridge needs.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// MQTTBridge forwards broker events to an MQTT broker as JSON messages
// on "<topic>/<event type>".
type MQTTBridge struct {
	client Publisher
	topic  string
	log    logrus.FieldLogger
}

func NewMQTTBridge(client Publisher, topic string, log logrus.FieldLogger) *MQTTBridge {
	return &MQTTBridge{client: client, topic: strings.Trim(topic, "/"), log: log}
}

// Run publishes every event from sub until the subscription closes or ctx is done.
func (b *MQTTBridge) Run(ctx context.Context, sub *Subscription) {
	defer sub.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := b.publish(ev); err != nil {
				b.log.WithError(err).WithField("event", ev.Type).Warn("mqtt publish failed")
			}
		}
	}
}

func (b *MQTTBridge) publish(ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	token := b.client.Publish(b.topic+"/"+ev.Type, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return errors.New("publish timed out")
	}
	return token.Error()
}

// ConnectMQTT dials the broker named by rawURL (tcp://host:port/topic).
// The returned topic is the URL path, or fallback when the path is empty.
func ConnectMQTT(rawURL, clientID, fallback string) (mqtt.Client, string, error) {
	uri, err := url.Parse(rawURL)
	if err != nil {
		return nil, "", fmt.Errorf("parse MQTT_URL: %w", err)
	}

	topic := strings.Trim(uri.Path, "/")
	if topic == "" {
		topic = fallback
	}

	client := mqtt.NewClient(createClientOptions(clientID, uri))
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, "", errors.New("timed out connecting to MQTT broker")
	}
	if err := token.Error(); err != nil {
		return nil, "", fmt.Errorf("connect MQTT broker: %w", err)
	}
	return client, topic, nil
}

func createClientOptions(clientID string, uri *url.URL) *mqtt.ClientOptions {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s", uri.Host))
	if uri.User != nil {
		opts.SetUsername(uri.User.Username())
		password, _ := uri.User.Password()
		opts.SetPassword(password)
	}
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	return opts
}
