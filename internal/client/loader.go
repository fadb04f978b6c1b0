package client

import (
	"context"
	"sync"

	"github.com/cmdshop/cmdshop/internal/cmds"
)

// State is what a Loader exposes to its consumer.
type State struct {
	Cmds    []cmds.Cmd
	Loading bool
	Err     string
}

// Lister is the part of Client a Loader needs.
type Lister interface {
	List(ctx context.Context) ([]cmds.Cmd, error)
}

// Loader fetches the cmd list once and holds the result. Results that land
// after Close are dropped.
type Loader struct {
	src Lister

	mu      sync.Mutex
	state   State
	err     error
	closed  bool
	started bool
	done    chan struct{}
}

func NewLoader(src Lister) *Loader {
	return &Loader{
		src:   src,
		state: State{Cmds: []cmds.Cmd{}, Loading: true},
		done:  make(chan struct{}),
	}
}

// Load starts the single fetch in the background. Later calls do nothing.
func (l *Loader) Load(ctx context.Context) {
	l.mu.Lock()
	if l.started || l.closed {
		l.mu.Unlock()
		return
	}
	l.started = true
	l.mu.Unlock()

	go func() {
		defer close(l.done)
		list, err := l.src.List(ctx)

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.closed {
			return
		}
		if err != nil {
			l.err = err
			l.state.Err = err.Error()
		} else if list != nil {
			l.state.Cmds = list
		}
		l.state.Loading = false
	}()
}

// Wait blocks until the fetch settles or ctx is done. It returns at once if
// Load was never called.
func (l *Loader) Wait(ctx context.Context) State {
	l.mu.Lock()
	started := l.started
	l.mu.Unlock()
	if started {
		select {
		case <-l.done:
		case <-ctx.Done():
		}
	}
	return l.State()
}

// State returns a snapshot of the current state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.state
	s.Cmds = append([]cmds.Cmd(nil), l.state.Cmds...)
	if s.Cmds == nil {
		s.Cmds = []cmds.Cmd{}
	}
	return s
}

// Err returns the error behind State.Err, or nil.
func (l *Loader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Close detaches the loader; the state no longer changes.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}
