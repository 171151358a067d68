package discovery

import (
	"net"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	// SearchTarget is the SSDP search target token identifying LG NetCast
	// remote control units.
	SearchTarget = "urn:schemas-udap:service:netrcu:1"

	ssdpAddress = "239.255.255.250"
	ssdpPort    = 1900

	// readBufferSize bounds a single SSDP response datagram
	readBufferSize = 64 * 1024
)

// ssdpTarget is the multicast group/port search requests are sent to.
var ssdpTarget = &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250), Port: ssdpPort}

// ReplyFunc is invoked for every well-formed search reply a listener reads.
// It may be called from the listener's read goroutine at any time after
// Start, including concurrently across listeners.
type ReplyFunc func(Reply)

// searchListener is the per-source SSDP search socket. The concrete UDP
// implementation is swapped out in tests.
type searchListener interface {
	// Start binds the socket and begins reading replies. The readiness
	// signal is set exactly once, on success or on a caught bind failure.
	Start() error
	// Search sends one search request to the multicast target.
	Search()
	// Ready is closed once the listener is bound, or once binding has
	// definitively failed.
	Ready() <-chan struct{}
	Close()
}

// udpSearchListener binds one UDP socket to a source address and fans
// matching replies into its callback.
type udpSearchListener struct {
	source       net.IP
	searchTarget string
	callback     ReplyFunc
	log          *zap.Logger

	conn      *net.UDPConn
	ready     chan struct{}
	readyOnce sync.Once
}

func newUDPSearchListener(source net.IP, searchTarget string, callback ReplyFunc, log *zap.Logger) *udpSearchListener {
	return &udpSearchListener{
		source:       source,
		searchTarget: searchTarget,
		callback:     callback,
		log:          log,
		ready:        make(chan struct{}),
	}
}

// Start binds the socket on the listener's source address and starts the
// read loop. A bind failure is returned to the caller and still sets the
// readiness signal so nobody waits on a listener that will never come up.
func (l *udpSearchListener) Start() error {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: l.source, Port: 0})
	if err != nil {
		l.setReady()
		return err
	}
	l.conn = conn
	go l.readLoop()
	l.setReady()
	return nil
}

// Search sends one M-SEARCH request. Send errors are logged and swallowed:
// a lost probe just means fewer replies this burst.
func (l *udpSearchListener) Search() {
	if l.conn == nil {
		return
	}
	if _, err := l.conn.WriteToUDP(l.searchRequest(), ssdpTarget); err != nil {
		l.log.Debug("Search request send failed",
			zap.String("source", l.source.String()), zap.Error(err))
	}
}

// Ready reports bind completion; see searchListener.
func (l *udpSearchListener) Ready() <-chan struct{} {
	return l.ready
}

// Close shuts the socket down, terminating the read loop.
func (l *udpSearchListener) Close() {
	if l.conn != nil {
		_ = l.conn.Close()
	}
}

func (l *udpSearchListener) setReady() {
	l.readyOnce.Do(func() { close(l.ready) })
}

func (l *udpSearchListener) searchRequest() []byte {
	return []byte(strings.Join([]string{
		"M-SEARCH * HTTP/1.1",
		"HOST: " + ssdpAddress + ":1900",
		`MAN: "ssdp:discover"`,
		"MX: 2",
		"ST: " + l.searchTarget,
		"USER-AGENT: UDAP/2.0",
		"", "",
	}, "\r\n"))
}

func (l *udpSearchListener) readLoop() {
	buf := make([]byte, readBufferSize)
	for {
		n, raddr, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			// Socket closed, or unrecoverable read error
			return
		}
		reply, ok := ParseReply(buf[:n])
		if !ok || reply.USN() == "" {
			continue
		}
		l.log.Debug("SSDP reply received",
			zap.String("remote_addr", raddr.String()),
			zap.String("usn", reply.USN()),
			zap.String("location", reply.Location()),
		)
		l.callback(reply)
	}
}
