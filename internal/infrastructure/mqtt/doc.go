// Package mqtt wraps the Eclipse Paho client for Haven Core.
//
// This package manages:
//   - Broker connection with auto-reconnect and exponential backoff
//   - Subscription tracking with restoration after reconnect
//   - Panic-safe message handlers
//   - Haven topic naming conventions
//
// Usage:
//
//	client, err := mqtt.Connect(cfg.MQTT)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Subscribe(mqtt.TopicExtensionAnnounce, 1,
//	    func(topic string, payload []byte) error {
//	        // handle announcement
//	        return nil
//	    })
package mqtt
