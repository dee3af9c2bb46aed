package scrollspy

import "sync"

// Source delivers scroll-position events to registered handlers.
type Source interface {
	Subscribe(handler func(Position)) (cancel func())
}

// Feed is an in-process Source. Publish calls handlers synchronously on the
// caller's goroutine, in registration order.
type Feed struct {
	mu       sync.Mutex
	handlers []feedHandler
	next     int
}

type feedHandler struct {
	id int
	fn func(Position)
}

func (f *Feed) Subscribe(handler func(Position)) (cancel func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.next
	f.next++
	f.handlers = append(f.handlers, feedHandler{id: id, fn: handler})

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			for i, h := range f.handlers {
				if h.id == id {
					f.handlers = append(f.handlers[:i], f.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers p to every current handler.
func (f *Feed) Publish(p Position) {
	f.mu.Lock()
	handlers := make([]feedHandler, len(f.handlers))
	copy(handlers, f.handlers)
	f.mu.Unlock()

	for _, h := range handlers {
		h.fn(p)
	}
}

// Len returns the number of registered handlers.
func (f *Feed) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}
