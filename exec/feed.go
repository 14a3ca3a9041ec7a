package exec

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	dialTimeout    = 3 * time.Second
	maxBackoff     = 10 * time.Second
	failuresToMock = 3
)

// Feed delivers execution-state snapshots to the viewer. It prefers the push
// transport at url; after repeated connection failures it falls back to the
// local mock sequencer and keeps trying to reconnect in the background. Only
// the most recent snapshot is retained; readers merge it at tick boundaries.
type Feed struct {
	url  string
	mock *MockSequencer

	mu        sync.Mutex
	latest    ExecutionState
	hasRemote bool
	usingMock bool

	closeCh chan struct{}
	once    sync.Once
}

// NewFeed starts a feed. An empty url goes straight to the mock fallback.
func NewFeed(url string, fallback *MockSequencer) *Feed {
	f := &Feed{
		url:     url,
		mock:    fallback,
		closeCh: make(chan struct{}),
	}
	if url == "" {
		f.usingMock = true
		if f.mock != nil {
			f.mock.Start()
		}
	} else {
		go f.run()
	}
	return f
}

// Latest returns the most recent known snapshot. While on the mock fallback
// this advances the mock sequencer.
func (f *Feed) Latest() ExecutionState {
	f.mu.Lock()
	usingMock := f.usingMock
	f.mu.Unlock()

	if usingMock && f.mock != nil {
		return f.mock.Snapshot()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest.Clone()
}

// UsingMock reports whether the feed is on its mock fallback.
func (f *Feed) UsingMock() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.usingMock
}

// Close stops the background connection loop.
func (f *Feed) Close() {
	f.once.Do(func() { close(f.closeCh) })
}

func (f *Feed) run() {
	backoff := time.Second
	failures := 0
	for {
		select {
		case <-f.closeCh:
			return
		default:
		}

		dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
		conn, _, err := dialer.Dial(f.url, nil)
		if err != nil {
			failures++
			if failures == failuresToMock {
				fmt.Printf("exec: feed unreachable at %s, falling back to mock sequencer\n", f.url)
				f.switchToMock(true)
			}
			select {
			case <-time.After(backoff):
			case <-f.closeCh:
				return
			}
			if backoff < maxBackoff {
				backoff *= 2
			}
			continue
		}

		failures = 0
		backoff = time.Second
		f.switchToMock(false)
		f.readLoop(conn)
		_ = conn.Close()
	}
}

func (f *Feed) readLoop(conn *websocket.Conn) {
	for {
		select {
		case <-f.closeCh:
			return
		default:
		}

		var state ExecutionState
		if err := conn.ReadJSON(&state); err != nil {
			fmt.Printf("exec: feed read error: %v\n", err)
			return
		}
		f.mu.Lock()
		f.latest = state
		f.hasRemote = true
		f.mu.Unlock()
	}
}

func (f *Feed) switchToMock(on bool) {
	f.mu.Lock()
	changed := f.usingMock != on
	f.usingMock = on
	f.mu.Unlock()
	if changed && on && f.mock != nil {
		f.mock.Start()
	}
	if changed && !on && f.mock != nil {
		f.mock.Pause()
	}
}
