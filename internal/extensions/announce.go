package extensions

import (
	"context"
	"encoding/json"

	"github.com/havenhome/haven-core/internal/infrastructure/mqtt"
)

// announcement is the JSON payload third-party extensions publish on
// the announce topic. There is no formal registration API for legacy
// extensions; this feed is the whole contract.
type announcement struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Version string `json:"version"`
}

// ListenAnnouncements subscribes the registry to the extension announce
// topic. Malformed or invalid announcements are logged and dropped;
// third-party publishers get no feedback channel.
//
// Parameters:
//   - client: Connected MQTT client
//   - registry: Registry to record announcements into
//   - logger: Logger for dropped announcements
//
// Returns:
//   - error: If the subscription itself fails
func ListenAnnouncements(client *mqtt.Client, registry *Registry, logger Logger) error {
	return client.Subscribe(mqtt.TopicExtensionAnnounce, 1, func(topic string, payload []byte) error {
		var ann announcement
		if err := json.Unmarshal(payload, &ann); err != nil {
			logger.Warn("dropping malformed extension announcement", "topic", topic, "error", err)
			return nil
		}

		err := registry.Register(context.Background(), Entry{
			Name:    ann.Name,
			URL:     ann.URL,
			Version: ann.Version,
		})
		if err != nil {
			logger.Warn("dropping invalid extension announcement",
				"name", ann.Name,
				"error", err,
			)
		}
		return nil
	})
}
