package infopanel

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/havenhome/haven-core/internal/extensions"
	"github.com/havenhome/haven-core/internal/infrastructure/config"
	"github.com/havenhome/haven-core/internal/supervisor"
)

// defaultRecheckDelay is how long after mount the panel re-checks the
// extension registry for late registrations.
const defaultRecheckDelay = 2 * time.Second

// invalidationBufferSize is the re-render notification buffer.
// Coalescing: consumers re-read the full view anyway.
const invalidationBufferSize = 8

// ErrAlreadyMounted is returned when Mount is called twice on one panel.
var ErrAlreadyMounted = errors.New("infopanel: already mounted")

// Logger defines the logging interface used by the Panel.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// SupervisorClient is the slice of the supervisor subsystem the panel
// depends on.
type SupervisorClient interface {
	// Available reports whether the subsystem is loaded at all.
	Available() bool

	// Fetch returns the joint OS/supervisor record, or an error with
	// no partial value.
	Fetch(ctx context.Context) (*supervisor.Info, error)
}

// ExtensionSource is read access to the legacy extension registry.
// The panel takes snapshots and never mutates the source.
type ExtensionSource interface {
	List() []extensions.Entry
	Count() int
}

// BuildInfo carries the build-time identity strings rendered on the
// panel's version line. All three are injected via ldflags.
type BuildInfo struct {
	// CoreVersion is the application version.
	CoreVersion string

	// PanelVersion is the frontend bundle version shipped with this build.
	PanelVersion string

	// BuildType distinguishes production and development builds.
	BuildType string
}

// Deps holds the dependencies required by the panel.
type Deps struct {
	Platform   config.PlatformConfig
	Build      BuildInfo
	Supervisor SupervisorClient
	Extensions ExtensionSource
	Logger     Logger

	// RecheckDelay overrides the late-registration re-check delay.
	// Zero means the default of 2 seconds. Tests shorten it.
	RecheckDelay time.Duration
}

// Panel assembles the Info settings panel: version and copyright text,
// the fixed documentation links, the legacy extension list and the
// liability disclaimer.
//
// Lifecycle: New, then Mount exactly once, then Close. Mount starts
// the supervisor info load and the delayed extension re-check; both
// are scoped to the mount lifetime and cancelled by Close. View may be
// called at any time and is a pure function of current state.
//
// Thread Safety: all public methods are safe for concurrent use.
type Panel struct {
	platform config.PlatformConfig
	build    BuildInfo
	sup      SupervisorClient
	exts     ExtensionSource
	logger   Logger
	delay    time.Duration

	mu             sync.RWMutex
	supervisorInfo *supervisor.Info // nil until the joint commit; never cleared
	mounted        bool

	invalidations chan struct{}
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// New creates a panel from its dependencies.
//
// Returns:
//   - *Panel: Panel ready to Mount
//   - error: If required dependencies are missing
func New(deps Deps) (*Panel, error) {
	if deps.Supervisor == nil {
		return nil, fmt.Errorf("infopanel: supervisor client is required")
	}
	if deps.Extensions == nil {
		return nil, fmt.Errorf("infopanel: extension source is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	delay := deps.RecheckDelay
	if delay <= 0 {
		delay = defaultRecheckDelay
	}

	return &Panel{
		platform:      deps.Platform,
		build:         deps.Build,
		sup:           deps.Supervisor,
		exts:          deps.Extensions,
		logger:        logger,
		delay:         delay,
		invalidations: make(chan struct{}, invalidationBufferSize),
	}, nil
}

// Mount starts the panel's asynchronous work: the supervisor info load
// (when the subsystem is available) and the single delayed extension
// re-check. Neither blocks the caller; completions surface as
// invalidation signals.
//
// Parameters:
//   - ctx: Parent context; panel work also stops when it is cancelled
//
// Returns:
//   - error: ErrAlreadyMounted on a second call
func (p *Panel) Mount(ctx context.Context) error {
	p.mu.Lock()
	if p.mounted {
		p.mu.Unlock()
		return ErrAlreadyMounted
	}
	p.mounted = true
	var mountCtx context.Context
	mountCtx, p.cancel = context.WithCancel(ctx)
	p.mu.Unlock()

	// Snapshot the registry length before any async work so the
	// delayed comparison sees the state the first render saw.
	mountCount := p.exts.Count()

	p.wg.Add(2)
	go p.loadSupervisorInfo(mountCtx)
	go p.watchExtensions(mountCtx, mountCount)

	p.logger.Debug("info panel mounted",
		"supervisor_available", p.sup.Available(),
		"extensions", mountCount,
	)
	return nil
}

// Close cancels all pending panel work and waits for it to stop.
// Safe to call multiple times.
func (p *Panel) Close() {
	p.mu.Lock()
	cancel := p.cancel
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
}

// Invalidations returns the re-render notification channel. A signal
// means the view may have changed; consumers re-read View(). The
// channel coalesces under load and is never closed.
func (p *Panel) Invalidations() <-chan struct{} {
	return p.invalidations
}

// SupervisorInfo returns the committed supervisor record, or nil when
// it has not been (and may never be) loaded.
func (p *Panel) SupervisorInfo() *supervisor.Info {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.supervisorInfo == nil {
		return nil
	}
	info := *p.supervisorInfo
	return &info
}

// loadSupervisorInfo performs the once-per-mount supervisor fetch pair.
//
// Absence of the subsystem is the expected state on bare installations:
// the record simply stays unset. A fetch failure is logged and the
// record stays unset; there is no retry.
func (p *Panel) loadSupervisorInfo(ctx context.Context) {
	defer p.wg.Done()

	if !p.sup.Available() {
		return
	}

	info, err := p.sup.Fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Error("supervisor info fetch failed", "error", err)
		}
		return
	}

	// Discard results that arrive after unmount.
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	p.supervisorInfo = info
	p.mu.Unlock()

	p.logger.Debug("supervisor info committed",
		"os_version", info.OS.Version,
		"supervisor_version", info.Meta.Version,
	)
	p.invalidate()
}

// watchExtensions runs the single delayed re-check for legacy
// extensions that registered after mount. It compares two genuine
// length snapshots - the mount count and a fresh count when the timer
// fires - and requests a re-render only when they differ.
func (p *Panel) watchExtensions(ctx context.Context, mountCount int) {
	defer p.wg.Done()

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	current := p.exts.Count()
	if current == mountCount {
		return
	}

	p.logger.Debug("late extension registrations detected",
		"at_mount", mountCount,
		"now", current,
	)
	p.invalidate()
}

// invalidate signals consumers without blocking.
func (p *Panel) invalidate() {
	select {
	case p.invalidations <- struct{}{}:
	default:
		// Signal already pending
	}
}
