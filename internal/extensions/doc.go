// Package extensions tracks legacy UI extensions registered by
// third-party code.
//
// Legacy extensions have no formal registration API: they announce
// themselves over MQTT (haven/extensions/announce) at their own pace,
// frequently well after the panels that display them have rendered.
// The registry absorbs those announcements, persists them in SQLite,
// and lets readers subscribe to change signals or poll a cheap count.
//
// The info panel treats this package as an external event source: it
// only ever reads snapshots and never mutates the list.
package extensions
