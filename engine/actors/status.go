package actors

import (
	"sync"

	"github.com/sasha-s/go-deadlock"
)

var terminateChan chan struct{}

func SetTerminateChan(term chan struct{}) {
	terminateChan = term
}

func GetTerminateChan() chan struct{} {
	return terminateChan
}

var wg = &deadlock.WaitGroup{}

// GetWaitGroup returns the global waitgroup actors add themselves to so that
// main can wait for every loop to drain before exiting.
func GetWaitGroup() *deadlock.WaitGroup {
	return wg
}

var shutdownOnce sync.Once

// Shutdown closes the terminate channel exactly once. Every actor loop selects
// on it and returns.
func Shutdown() {
	shutdownOnce.Do(func() {
		if terminateChan != nil {
			close(terminateChan)
		}
	})
}
