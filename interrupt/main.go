// Package interrupt runs a set of shutdown handlers once, when the process
// receives an interrupt or terminate signal or when shutdown is requested.
package interrupt

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	mx       sync.Mutex
	handlers []func()
	listen   sync.Once
	shutdown sync.Once
	requests = make(chan struct{}, 1)
	signals  = make(chan os.Signal, 1)
	// HandlersDone is closed after every handler has run.
	HandlersDone = make(chan struct{})
)

// AddHandler adds a function to be run on shutdown. Handlers run in the reverse
// of the order they were added, so that later setup is torn down first.
func AddHandler(fn func()) {
	mx.Lock()
	handlers = append(handlers, fn)
	mx.Unlock()
	listen.Do(start)
}

// Request shuts down as though a signal was received.
func Request() {
	listen.Do(start)
	select {
	case requests <- struct{}{}:
	default:
	}
}

// Requested reports whether the handlers have run.
func Requested() bool {
	select {
	case <-HandlersDone:
		return true
	default:
		return false
	}
}

func start() {
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-signals:
			log.I.F("received signal %s, shutting down", sig)
		case <-requests:
			log.D.Ln("shutdown requested")
		}
		signal.Stop(signals)
		run()
	}()
}

func run() {
	shutdown.Do(func() {
		mx.Lock()
		hh := handlers
		handlers = nil
		mx.Unlock()
		for i := len(hh) - 1; i >= 0; i-- {
			hh[i]()
		}
		close(HandlersDone)
	})
}
