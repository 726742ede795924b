// Package supervisor provides a client for the optional supervisor
// subsystem present on managed Haven installations.
//
// The supervisor exposes host OS metadata and its own version/health
// record over a local HTTP API. This package treats both as opaque
// display records: it fetches, decodes the response envelope, and hands
// them to callers unchanged.
//
// Installations without the subsystem are the normal case, not a
// failure: Available() reports false and Fetch returns ErrNotAvailable
// without network activity.
//
// No retries are performed anywhere in this package - a failed fetch is
// the caller's signal that the record is simply absent this session.
package supervisor
