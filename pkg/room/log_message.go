package room

import (
	"flipseven-server/pkg/playable"
)

// addLogMessages adds broadcast messages to the tail replayed to late joiners
// Note: the caller must hold d.lock
func (d *Dealer) addLogMessages(messages ...*playable.LogMessage) {
	m := append(d.logMessages, messages...)
	count := len(m)
	if limit := d.options.LogTail; count > limit {
		m = m[count-limit:]
	}

	d.logMessages = m
}

// logTail returns a copy of the log tail
func (d *Dealer) logTail() []*playable.LogMessage {
	d.lock.RLock()
	defer d.lock.RUnlock()

	tail := make([]*playable.LogMessage, len(d.logMessages))
	copy(tail, d.logMessages)
	return tail
}
