// Package infopanel implements the About/Info settings panel for Haven Core.
//
// The panel renders a fixed page: platform header, version and copyright
// line, five documentation links, the list of registered legacy
// extensions and a license disclaimer. Rendering is pure; all dynamic
// behaviour lives in the mount lifecycle.
//
// # Lifecycle
//
// Mount starts two background tasks scoped to the mount:
//
//   - Supervisor loader: when the host exposes a supervisor, fetches the
//     OS record and the supervisor metadata record concurrently and
//     commits them together, exactly once. A partial result is never
//     committed. Without a supervisor no request is made.
//   - Extension watcher: snapshots the extension count at mount, waits a
//     fixed delay, takes a second snapshot and signals an invalidation
//     only if the two differ. The check runs once per mount.
//
// Close cancels both tasks and waits for them to finish. Work cancelled
// mid-flight is discarded without committing or signalling.
//
// # Key Types
//
//   - Panel: mountable panel component; View builds the render state
//   - ViewModel: complete render state (header, version, pages,
//     supervisor data, extensions, disclaimer)
//   - Deps: injected platform config, build identity, supervisor client
//     and extension source
//
// # Thread Safety
//
// Panel is safe for concurrent use. View may be called at any time,
// including while background tasks run; it sees only committed state.
//
// # Usage
//
//	panel, err := infopanel.New(infopanel.Deps{
//	    Platform:   cfg.Platform,
//	    Build:      infopanel.BuildInfo{CoreVersion: version},
//	    Supervisor: supClient,
//	    Extensions: registry,
//	    Logger:     log,
//	})
//	if err != nil {
//	    return err
//	}
//	if err := panel.Mount(ctx); err != nil {
//	    return err
//	}
//	defer panel.Close()
//
//	for range panel.Invalidations() {
//	    hub.Broadcast(panel.View())
//	}
package infopanel
