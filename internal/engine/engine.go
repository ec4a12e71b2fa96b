// Package engine orchestrates one refresh cycle: socket discovery, process
// correlation, throughput rates, and hostname resolution. It is the single
// surface the CLI and TUI layers talk to.
package engine

import (
	"time"

	"github.com/jgrady/netmon/internal/config"
	"github.com/jgrady/netmon/internal/logger"
	"github.com/jgrady/netmon/internal/netstat"
	"github.com/jgrady/netmon/internal/procfs"
	"github.com/jgrady/netmon/internal/rates"
	"github.com/jgrady/netmon/internal/resilience"
	"github.com/jgrady/netmon/internal/resolve"
)

// Engine ties the refresh pipeline together. Refresh is synchronous and
// meant to be driven by the caller's tick; the only background work is the
// resolver's worker pool.
type Engine struct {
	reader     *netstat.Reader
	correlator *procfs.Correlator
	calc       *rates.Calculator
	resolver   *resolve.Resolver
	breaker    *resilience.CircuitBreaker
	log        logger.Logger

	prev rates.SnapshotMap
	last []netstat.Connection
}

// Option configures an Engine.
type Option func(*options)

type options struct {
	log     logger.Logger
	lookup  resolve.Lookuper
	breaker *resilience.CircuitBreaker
}

// WithLogger sets the logger shared by all pipeline stages.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithLookuper substitutes the resolver's reverse-lookup backend. For tests.
func WithLookuper(l resolve.Lookuper) Option {
	return func(o *options) { o.lookup = l }
}

// WithBreaker substitutes the circuit breaker guarding socket table reads.
func WithBreaker(cb *resilience.CircuitBreaker) Option {
	return func(o *options) { o.breaker = cb }
}

// New builds the refresh pipeline from config. Call Close when done to
// stop the resolver workers.
func New(cfg *config.Config, opts ...Option) *Engine {
	o := &options{log: logger.Default()}
	for _, opt := range opts {
		opt(o)
	}

	correlator := procfs.NewCorrelator(
		procfs.WithRoot(cfg.ProcRoot),
		procfs.WithLogger(o.log),
	)

	resolverOpts := []resolve.Option{
		resolve.WithWorkers(cfg.Workers),
		resolve.WithLogger(o.log),
	}
	if o.lookup != nil {
		resolverOpts = append(resolverOpts, resolve.WithLookuper(o.lookup))
	}

	breaker := o.breaker
	if breaker == nil {
		breaker = resilience.NewCircuitBreaker()
	}

	return &Engine{
		reader: netstat.NewReader(correlator,
			netstat.WithRoot(cfg.ProcRoot),
			netstat.WithLogger(o.log),
		),
		correlator: correlator,
		calc:       rates.NewCalculator(rates.WithRoot(cfg.ProcRoot)),
		resolver:   resolve.NewResolver(cfg.ResolveHosts, resolverOpts...),
		breaker:    breaker,
		log:        o.log,
		prev:       rates.SnapshotMap{},
	}
}

// Refresh runs one pipeline cycle and returns the current connection set
// with process identities and rates stamped on. A systemic read failure
// degrades to the previous result; the circuit breaker stops hammering a
// dead proc mount and lets it recover on a later tick.
func (e *Engine) Refresh(now time.Time) []netstat.Connection {
	var conns []netstat.Connection
	err := e.breaker.Call(func() error {
		var readErr error
		conns, readErr = e.reader.Connections()
		return readErr
	})
	if err != nil {
		if resilience.IsBreakerOpen(err) {
			e.log.Debug("refresh skipped: %v", err)
		} else {
			e.log.Warn("refresh degraded: %v", err)
		}
		return e.last
	}

	conns, e.prev = e.calc.Update(conns, e.prev, now)

	for i := range conns {
		conns[i].Remote = e.resolver.Resolve(conns[i].Remote)
	}

	e.last = conns
	return conns
}

// Connections returns the result of the most recent Refresh.
func (e *Engine) Connections() []netstat.Connection {
	return e.last
}

// SetResolveHosts toggles hostname resolution. Disabling clears the
// resolver cache; raw addresses show on the next refresh.
func (e *Engine) SetResolveHosts(enabled bool) {
	e.resolver.SetResolveHosts(enabled)
}

// ResolveHosts reports whether hostname resolution is enabled.
func (e *Engine) ResolveHosts() bool {
	return e.resolver.ResolveHosts()
}

// ClearCaches drops the resolver and correlator caches. The next refresh
// rebuilds both from scratch.
func (e *Engine) ClearCaches() {
	e.resolver.ClearCache()
	e.correlator.Clear()
}

// Close stops the resolver worker pool.
func (e *Engine) Close() {
	e.resolver.Close()
}
