package mqtt

// Topic prefixes for the Haven MQTT namespace.
//
// Third-party integrations publish under haven/extensions/*; core
// services publish under haven/core/*.
const (
	// TopicPrefix is the base for all Haven topics.
	TopicPrefix = "haven"

	// TopicExtensionAnnounce is where legacy UI extensions announce
	// themselves. Payload: {"name": ..., "url": ..., "version": ...}
	TopicExtensionAnnounce = TopicPrefix + "/extensions/announce"

	// TopicCoreStatus carries core service availability messages.
	TopicCoreStatus = TopicPrefix + "/core/status"
)
