package concurrency

// Guard forbids re-entry into a group of related operations. Enter never
// blocks: a second caller while the guard is held is rejected, which also
// covers a liquidation callback trying to re-enter the ledger mid-call.
type Guard struct {
	ch chan struct{}
}

// NewGuard new guard
func NewGuard() *Guard {
	return &Guard{ch: make(chan struct{}, 1)}
}

// Enter acquires the guard, false if an operation is already in progress
func (g *Guard) Enter() bool {
	select {
	case g.ch <- struct{}{}:
		return true
	default:
		return false
	}
}

// Exit releases the guard
func (g *Guard) Exit() {
	select {
	case <-g.ch:
	default:
	}
}
