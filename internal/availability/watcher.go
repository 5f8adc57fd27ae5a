package availability

import (
	"context"
	"sync"
	"time"
)

// Watcher debounces evaluation per checkout session and suppresses stale
// results. Every Kick bumps the session's sequence; an evaluation only
// applies if its sequence is still current when it finishes, so a result
// for superseded inputs can never overwrite a newer state.
type Watcher struct {
	evaluator *Evaluator
	debounce  time.Duration

	// onApply is invoked outside the watcher lock for every applied
	// evaluation, nil result included (inputs became incomplete).
	onApply func(sessionID string, result *Result)

	mu     sync.Mutex
	states map[string]*watchState
}

type watchState struct {
	seq     uint64
	applied uint64
	query   Query
	latest  *Result
}

func NewWatcher(evaluator *Evaluator, debounce time.Duration, onApply func(sessionID string, result *Result)) *Watcher {
	return &Watcher{
		evaluator: evaluator,
		debounce:  debounce,
		onApply:   onApply,
		states:    make(map[string]*watchState),
	}
}

// Kick records a draft change and arms the debounce window. Only the
// timer carrying the latest sequence survives to run the evaluation.
func (w *Watcher) Kick(sessionID string, query Query) {
	w.mu.Lock()
	st, ok := w.states[sessionID]
	if !ok {
		st = &watchState{}
		w.states[sessionID] = st
	}
	st.seq++
	st.query = query
	seq := st.seq
	w.mu.Unlock()

	time.AfterFunc(w.debounce, func() {
		w.fire(sessionID, seq)
	})
}

// Checking reports whether the latest sequence still has an unapplied
// evaluation. Checkout blocks forward progress while this is true.
func (w *Watcher) Checking(sessionID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.states[sessionID]
	if !ok {
		return false
	}
	return st.seq > st.applied
}

// Latest returns the most recently applied result, nil when none exists.
func (w *Watcher) Latest(sessionID string) *Result {
	w.mu.Lock()
	defer w.mu.Unlock()

	st, ok := w.states[sessionID]
	if !ok {
		return nil
	}
	return st.latest
}

// Forget drops all watcher state for a session. Called when the session
// is confirmed or expires.
func (w *Watcher) Forget(sessionID string) {
	w.mu.Lock()
	delete(w.states, sessionID)
	w.mu.Unlock()
}

func (w *Watcher) fire(sessionID string, seq uint64) {
	w.mu.Lock()
	st, ok := w.states[sessionID]
	if !ok || st.seq != seq {
		// Superseded while debouncing
		w.mu.Unlock()
		return
	}
	query := st.query
	w.mu.Unlock()

	result := w.evaluator.Evaluate(context.Background(), query)

	w.mu.Lock()
	st, ok = w.states[sessionID]
	if !ok || st.seq != seq {
		// Superseded while evaluating; drop the stale result
		w.mu.Unlock()
		return
	}
	st.applied = seq
	if result != nil {
		result.Sequence = seq
	}
	st.latest = result
	w.mu.Unlock()

	if w.onApply != nil {
		w.onApply(sessionID, result)
	}
}
