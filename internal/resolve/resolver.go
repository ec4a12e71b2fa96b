// Package resolve classifies and opportunistically resolves remote socket
// endpoints to hostnames without ever blocking the caller.
package resolve

import (
	"context"
	"strings"
	"sync"

	"github.com/jgrady/netmon/internal/logger"
)

// DefaultWorkers is the size of the background resolution pool.
const DefaultWorkers = 4

// requestBuffer bounds the queue of addresses awaiting resolution.
const requestBuffer = 64

// request is one queued background resolution.
type request struct {
	addr string // full original "ip:port" string, the cache key
	ip   string // bare IP handed to the lookuper
	port string // original port, recombined into the display string
}

// Resolver returns display names for remote endpoints. Fixed classifications
// (ANY, LOCALHOST, MDNS) are immediate; everything else is served
// stale-while-revalidate: the raw address comes back now, a bounded worker
// pool fills the cache, and a later call returns the resolved name.
//
// The pending set guarantees at most one in-flight resolution per distinct IP.
type Resolver struct {
	lookup  Lookuper
	log     logger.Logger
	workers int

	mu       sync.Mutex
	enabled  bool
	resolved map[string]string   // full addr -> display string
	pending  map[string]struct{} // bare IP currently queued or in-flight

	requests chan request
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLookuper substitutes the reverse-lookup backend.
func WithLookuper(l Lookuper) Option {
	return func(r *Resolver) { r.lookup = l }
}

// WithWorkers sets the background pool size.
func WithWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithLogger sets the logger for resolution failures.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) { r.log = log }
}

// NewResolver creates a resolver and starts its worker pool.
// Call Close to stop the workers.
func NewResolver(enabled bool, opts ...Option) *Resolver {
	r := &Resolver{
		lookup:   HostCommand{},
		log:      logger.Default(),
		workers:  DefaultWorkers,
		enabled:  enabled,
		resolved: make(map[string]string),
		pending:  make(map[string]struct{}),
		requests: make(chan request, requestBuffer),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.ctx, r.cancel = context.WithCancel(context.Background())

	r.wg.Add(r.workers)
	for i := 0; i < r.workers; i++ {
		go r.worker()
	}
	return r
}

// Resolve returns a display string for addr. Never blocks on I/O.
func (r *Resolver) Resolve(addr string) string {
	if display, ok := classify(addr); ok {
		return display
	}

	r.mu.Lock()
	if !r.enabled {
		r.mu.Unlock()
		return addr
	}
	if display, ok := r.resolved[addr]; ok {
		r.mu.Unlock()
		return display
	}

	ip, port := splitAddr(addr)
	if _, inflight := r.pending[ip]; !inflight {
		r.pending[ip] = struct{}{}
		select {
		case r.requests <- request{addr: addr, ip: ip, port: port}:
		default:
			// Queue full: give the slot back so a later call can retry.
			delete(r.pending, ip)
		}
	}
	r.mu.Unlock()

	return addr
}

// SetResolveHosts toggles resolution. Disabling clears the cache so stale
// entries cannot linger across a re-enable.
func (r *Resolver) SetResolveHosts(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	if !enabled {
		r.resolved = make(map[string]string)
	}
	r.mu.Unlock()
}

// ResolveHosts reports whether resolution is currently enabled.
func (r *Resolver) ResolveHosts() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// ClearCache drops all resolved entries.
func (r *Resolver) ClearCache() {
	r.mu.Lock()
	r.resolved = make(map[string]string)
	r.mu.Unlock()
}

// Close stops the worker pool. Queued requests are abandoned.
func (r *Resolver) Close() {
	r.cancel()
	r.wg.Wait()
}

// worker drains the request channel until the resolver is closed.
// The pending entry for an IP is removed whatever the outcome, so a failed
// lookup never starves that IP of future resolution attempts.
func (r *Resolver) worker() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case req := <-r.requests:
			r.process(req)
		}
	}
}

func (r *Resolver) process(req request) {
	defer func() {
		r.mu.Lock()
		delete(r.pending, req.ip)
		r.mu.Unlock()
	}()

	r.mu.Lock()
	enabled := r.enabled
	r.mu.Unlock()
	if !enabled {
		return
	}

	display := req.addr
	name, err := r.lookup.ReverseLookup(r.ctx, req.ip)
	if err != nil {
		r.log.Debug("reverse lookup %s: %v", req.ip, err)
	} else if req.port != "" {
		display = name + ":" + req.port
	} else {
		display = name
	}

	r.mu.Lock()
	if r.enabled {
		r.resolved[req.addr] = display
	}
	r.mu.Unlock()
}

// classify applies the fixed address classifications that bypass both the
// toggle and the cache.
func classify(addr string) (string, bool) {
	switch addr {
	case "0.0.0.0:*", "*:*", "[::]:*":
		return "ANY", true
	}
	switch {
	case strings.HasPrefix(addr, "127.0.0.1:"), strings.HasPrefix(addr, "[::1]:"):
		return "LOCALHOST", true
	case strings.HasPrefix(addr, "224.0.0.251:"):
		return "MDNS", true
	}
	return "", false
}

// splitAddr extracts the bare IP (brackets stripped for IPv6) and port from
// an "ip:port" display string. An address without a colon is all IP.
func splitAddr(addr string) (ip, port string) {
	idx := strings.LastIndex(addr, ":")
	if idx < 0 {
		return addr, ""
	}
	ip, port = addr[:idx], addr[idx+1:]
	ip = strings.TrimPrefix(ip, "[")
	ip = strings.TrimSuffix(ip, "]")
	return ip, port
}
