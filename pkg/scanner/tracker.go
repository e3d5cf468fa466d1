package scanner

import (
	"slices"
	"sync"
	"time"

	"github.com/herlein/gohc12/pkg/hc12"
)

// ChannelActivity is the traffic history of one channel
type ChannelActivity struct {
	Channel        hc12.Channel
	LastBytes      int       // bytes seen in the latest active dwell
	MaxBytes       int       // most bytes seen in one dwell
	TotalBytes     int       // bytes seen over all sweeps
	FirstSeen      time.Time // When traffic was first seen
	LastSeen       time.Time // When traffic was last seen
	DetectionCount uint32    // Number of dwells with traffic
}

type trackedChannel struct {
	info        ChannelActivity
	holdCounter int
	seenInSweep bool
}

// ActivityTracker keeps per channel history with hysteresis: a channel stays
// active for HoldMax quiet sweeps, and OnLost fires when the hold count falls
// to the lost threshold
type ActivityTracker struct {
	mu       sync.RWMutex
	channels map[uint8]*trackedChannel
	holdMax  int
	lostAt   int

	onDetected func(*ChannelActivity)
	onLost     func(*ChannelActivity)
}

// NewActivityTracker creates a tracker
func NewActivityTracker(holdMax, lostAt int) *ActivityTracker {
	return &ActivityTracker{
		channels: make(map[uint8]*trackedChannel),
		holdMax:  holdMax,
		lostAt:   lostAt,
	}
}

// SetCallbacks sets the activity callbacks. Callbacks run synchronously
// with a copy of the channel's history.
func (t *ActivityTracker) SetCallbacks(onDetected, onLost func(*ChannelActivity)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDetected = onDetected
	t.onLost = onLost
}

// Update records one sample
func (t *ActivityTracker) Update(s Sample) {
	if s.Bytes == 0 {
		return
	}

	t.mu.Lock()
	tc, exists := t.channels[s.Channel.Code()]
	if !exists {
		tc = &trackedChannel{info: ChannelActivity{Channel: s.Channel, FirstSeen: s.Timestamp}}
		t.channels[s.Channel.Code()] = tc
	}
	newlyActive := tc.holdCounter <= t.lostAt

	tc.holdCounter = t.holdMax
	tc.seenInSweep = true
	tc.info.LastBytes = s.Bytes
	tc.info.TotalBytes += s.Bytes
	tc.info.MaxBytes = max(tc.info.MaxBytes, s.Bytes)
	tc.info.LastSeen = s.Timestamp
	tc.info.DetectionCount++

	info := tc.info
	onDetected := t.onDetected
	t.mu.Unlock()

	if newlyActive && onDetected != nil {
		onDetected(&info)
	}
}

// EndSweep ages every channel that stayed quiet during the sweep
func (t *ActivityTracker) EndSweep() {
	var lost []ChannelActivity

	t.mu.Lock()
	for _, tc := range t.channels {
		if tc.seenInSweep {
			tc.seenInSweep = false
			continue
		}
		if tc.holdCounter == 0 {
			continue
		}
		tc.holdCounter--
		if tc.holdCounter == t.lostAt {
			lost = append(lost, tc.info)
		}
	}
	onLost := t.onLost
	t.mu.Unlock()

	if onLost == nil {
		return
	}
	for i := range lost {
		onLost(&lost[i])
	}
}

// Active returns copies of the channels currently held active, by channel
func (t *ActivityTracker) Active() []*ChannelActivity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var active []*ChannelActivity
	for _, tc := range t.channels {
		if tc.holdCounter > t.lostAt {
			info := tc.info
			active = append(active, &info)
		}
	}
	sortByChannel(active)
	return active
}

// All returns copies of every channel ever seen active, by channel
func (t *ActivityTracker) All() []*ChannelActivity {
	t.mu.RLock()
	defer t.mu.RUnlock()

	all := make([]*ChannelActivity, 0, len(t.channels))
	for _, tc := range t.channels {
		info := tc.info
		all = append(all, &info)
	}
	sortByChannel(all)
	return all
}

// Clear removes all history
func (t *ActivityTracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.channels = make(map[uint8]*trackedChannel)
}

func sortByChannel(list []*ChannelActivity) {
	slices.SortFunc(list, func(a, b *ChannelActivity) int {
		return int(a.Channel.Code()) - int(b.Channel.Code())
	})
}
