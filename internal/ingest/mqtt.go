package ingest

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MessageHandler processes one message. A returned error is logged by the
// caller and does not stop the subscription.
type MessageHandler func(topic string, payload []byte) error

// ClientConfig configures the broker connection.
type ClientConfig struct {
	Broker   string
	ClientID string
	Username string
	Password string
}

// Client is a thin wrapper over a paho MQTT connection.
type Client struct {
	client mqtt.Client
	onErr  func(topic string, err error)
}

// NewClient connects to the broker. onErr receives handler failures; nil
// discards them.
func NewClient(cfg ClientConfig, onErr func(topic string, err error)) (*Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.Broker)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)
	opts.SetConnectTimeout(10 * time.Second)

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect to MQTT broker %s: %w", cfg.Broker, token.Error())
	}
	if onErr == nil {
		onErr = func(string, error) {}
	}
	return &Client{client: client, onErr: onErr}, nil
}

// Subscribe registers handler for topic.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	if token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		if err := handler(msg.Topic(), msg.Payload()); err != nil {
			c.onErr(msg.Topic(), err)
		}
	}); token.Wait() && token.Error() != nil {
		return fmt.Errorf("subscribe to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Publish sends payload to topic and waits for delivery at the given qos.
func (c *Client) Publish(topic string, qos byte, retained bool, payload []byte) error {
	token := c.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("publish to topic %s: %w", topic, token.Error())
	}
	return nil
}

// Unsubscribe removes the subscriptions for topics.
func (c *Client) Unsubscribe(topics ...string) error {
	token := c.client.Unsubscribe(topics...)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("unsubscribe: %w", token.Error())
	}
	return nil
}

// Disconnect closes the connection, allowing 250ms for in-flight work.
func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

// IsConnected reports the connection state.
func (c *Client) IsConnected() bool {
	return c.client.IsConnected()
}
