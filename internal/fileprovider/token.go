package fileprovider

import "sync"

// Token signals a single change.  Once fired it stays fired; callers that
// want to keep watching must ask the provider for a new token.
type Token struct {
	once sync.Once
	done chan struct{}

	mu        sync.Mutex
	callbacks map[int]func()
	nextID    int

	stop func() // releases the watcher subscription; nil for Never
}

func newToken() *Token {
	return &Token{done: make(chan struct{}), callbacks: map[int]func(){}}
}

// Never returns a token that is never fired.
func Never() *Token { return newToken() }

// HasChanged reports whether the token has fired.
func (t *Token) HasChanged() bool {
	select {
	case <-t.done:
		return true
	default:
		return false
	}
}

// Done is closed when the token fires.
func (t *Token) Done() <-chan struct{} { return t.done }

// RegisterCallback runs fn once when the token fires.  If it already fired,
// fn runs immediately on the calling goroutine.  The returned func removes
// the callback.
func (t *Token) RegisterCallback(fn func()) (unregister func()) {
	t.mu.Lock()
	if t.HasChanged() {
		t.mu.Unlock()
		fn()
		return func() {}
	}
	id := t.nextID
	t.nextID++
	t.callbacks[id] = fn
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		delete(t.callbacks, id)
		t.mu.Unlock()
	}
}

// Stop releases the subscription behind t without firing it.  A stopped
// token never fires.  Safe to call more than once and on fired tokens.
func (t *Token) Stop() {
	if t.stop != nil {
		t.stop()
	}
}

func (t *Token) fire() {
	t.once.Do(func() {
		t.mu.Lock()
		close(t.done)
		cbs := t.callbacks
		t.callbacks = nil
		t.mu.Unlock()

		for _, fn := range cbs {
			fn()
		}
	})
}
