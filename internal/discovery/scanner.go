package discovery

import (
	"context"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// DiscoveryAttempts is how many search bursts one sweep fires
	DiscoveryAttempts = 3

	// SearchInterval is the delay between bursts, absorbing packet loss
	SearchInterval = 2 * time.Second

	// replyQueueSize bounds buffered replies awaiting merge
	replyQueueSize = 64
)

// Scanner owns the per-source listener pool and the registry of discovered
// devices. Construct one with NewScanner and share it by reference across
// callers; Setup is idempotent, so the same Scanner can back any number of
// discovery sweeps without leaking listeners.
type Scanner struct {
	// SearchTarget is the SSDP service-type token probed for
	SearchTarget string

	// Attempts and Interval bound a discovery sweep: it always returns
	// within Attempts * Interval plus the fixed descriptor fetch timeout
	Attempts int
	Interval time.Duration

	// DefaultInterfaceOnly collapses the source set to the wildcard
	// address, binding only the default interface
	DefaultInterfaceOnly bool

	log       *zap.Logger
	describer *Describer

	// newListener and buildSources are test seams
	newListener  func(source net.IP, callback ReplyFunc) searchListener
	buildSources func() []net.IP

	setupOnce sync.Once
	closeOnce sync.Once

	// replies carries reply datagrams from every listener's read goroutine
	// to the single merge consumer
	replies chan Reply
	done    chan struct{}

	mu        sync.Mutex
	listeners []searchListener
	records   map[string]DeviceRecord
}

// NewScanner creates a scanner with the NetCast defaults.
func NewScanner(log *zap.Logger) *Scanner {
	s := &Scanner{
		SearchTarget: SearchTarget,
		Attempts:     DiscoveryAttempts,
		Interval:     SearchInterval,
		log:          log,
		describer:    NewDescriber(log),
		replies:      make(chan Reply, replyQueueSize),
		done:         make(chan struct{}),
		records:      make(map[string]DeviceRecord),
	}
	s.newListener = func(source net.IP, callback ReplyFunc) searchListener {
		return newUDPSearchListener(source, s.SearchTarget, callback, s.log)
	}
	s.buildSources = func() []net.IP {
		return BuildSourceSet(s.DefaultInterfaceOnly, s.log)
	}
	return s
}

// Setup starts one search listener per eligible source address and blocks
// until every surviving listener reports ready, then fires an immediate
// search burst. Re-entrant calls await existing readiness instead of
// rebinding.
//
// Individual bind failures are non-fatal: the failed listener is logged,
// dropped from the pool, and its readiness signal force-set so Setup never
// hangs on it. Setup itself reports no errors - a pool with fewer (or zero)
// listeners just discovers fewer devices.
func (s *Scanner) Setup(ctx context.Context) {
	s.setupOnce.Do(func() {
		go s.mergeLoop()
		s.startListeners()
		s.waitReady(ctx)
		s.Scan()
	})
	s.waitReady(ctx)
}

func (s *Scanner) startListeners() {
	sources := s.buildSources()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started []searchListener
	)
	for _, source := range sources {
		listener := s.newListener(source, s.enqueue)
		wg.Add(1)
		go func(source net.IP, listener searchListener) {
			defer wg.Done()
			if err := listener.Start(); err != nil {
				s.log.Warn("Failed to set up search listener",
					zap.String("source", source.String()), zap.Error(err))
				return
			}
			mu.Lock()
			started = append(started, listener)
			mu.Unlock()
		}(source, listener)
	}
	wg.Wait()

	s.mu.Lock()
	s.listeners = started
	s.mu.Unlock()

	s.log.Debug("Search listeners ready", zap.Int("count", len(started)))
}

// waitReady blocks until all active listeners signal readiness or the
// context is cancelled.
func (s *Scanner) waitReady(ctx context.Context) {
	s.mu.Lock()
	listeners := make([]searchListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, listener := range listeners {
		select {
		case <-listener.Ready():
		case <-ctx.Done():
			return
		}
	}
}

// Scan fires one search request on every active listener. Side-effect only;
// safe to call concurrently with replies arriving.
func (s *Scanner) Scan() {
	s.mu.Lock()
	listeners := make([]searchListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	s.log.Debug("NetCast scanning")
	for _, listener := range listeners {
		listener.Search()
	}
}

// Discover runs one best-effort discovery sweep: ensure Setup has
// completed, fire Attempts search bursts Interval apart, then return a
// snapshot of every device known so far. The result is "found so far", not
// "found all" - replies may still trickle in after it returns.
func (s *Scanner) Discover(ctx context.Context) []DeviceRecord {
	s.log.Debug("NetCast discover", zap.Duration("interval", s.Interval))
	s.Setup(ctx)
	for i := 0; i < s.Attempts; i++ {
		s.Scan()
		select {
		case <-time.After(s.Interval):
		case <-ctx.Done():
			return s.Snapshot()
		}
	}
	return s.Snapshot()
}

// Snapshot returns a deep copy of all known device records.
func (s *Scanner) Snapshot() []DeviceRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]DeviceRecord, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record.clone())
	}
	return out
}

// enqueue posts one reply onto the merge queue. Invoked from listener read
// goroutines. A full queue drops the reply; devices re-answer on the next
// burst.
func (s *Scanner) enqueue(reply Reply) {
	select {
	case s.replies <- reply:
	case <-s.done:
	default:
		s.log.Debug("Reply queue full, dropping reply", zap.String("usn", reply.USN()))
	}
}

// mergeLoop is the single consumer of the reply queue. Serializing merges
// here keeps the registry free of concurrent mutation no matter how many
// listeners feed it.
func (s *Scanner) mergeLoop() {
	for {
		select {
		case reply := <-s.replies:
			s.merge(reply)
		case <-s.done:
			return
		}
	}
}

// merge folds one search reply into the registry, possibly many times per
// device and sweep, so it is idempotent: later replies for the same unique
// id overwrite the record, never duplicate it.
//
// For a known device the previously recorded location is reused for the
// descriptor fetch, except when the reply's hostname differs from the
// recorded one - an IP change means the old descriptor URL may be stale, so
// the new location is fetched instead.
func (s *Scanner) merge(reply Reply) {
	uniqueID := reply.UniqueID()
	location := reply.Location()
	if uniqueID == "" || location == "" {
		return
	}
	host := hostnameOf(location)
	if host == "" {
		return
	}

	s.mu.Lock()
	fetchLocation := location
	current, known := s.records[uniqueID]
	if known && current.Host() == host {
		fetchLocation = current.Location()
	}
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), DescriptorTimeout)
	upnp := s.describer.Describe(ctx, fetchLocation)
	cancel()

	if !known || current.Host() != host {
		s.log.Debug("NetCast device discovered",
			zap.String("unique_id", uniqueID),
			zap.String("host", host),
		)
	}

	s.mu.Lock()
	s.records[uniqueID] = DeviceRecord{
		UniqueID: uniqueID,
		Headers:  reply.Headers(),
		UPnP:     upnp,
	}
	s.mu.Unlock()
}

// Close shuts down all listeners. Primarily for tests and simulators; the
// scanner is normally process-lived.
func (s *Scanner) Close() {
	s.closeOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	listeners := s.listeners
	s.listeners = nil
	s.mu.Unlock()

	for _, listener := range listeners {
		listener.Close()
	}
}
