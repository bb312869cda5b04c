package tilegrid

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	id     uint32
	remove func(uint32)
}

// Remove unregisters the callback so it no longer fires. Removing twice, or
// removing the zero handle, is a no-op.
func (h CallbackHandle) Remove() {
	if h.remove == nil {
		return
	}
	h.remove(h.id)
}

type handler[T any] struct {
	id uint32
	fn func(T)
}

// handlerList is an ordered callback registry. Handlers fire in registration
// order; a handler removed during emit does not fire later in that emit.
type handlerList[T any] struct {
	items  []handler[T]
	nextID uint32
}

func (l *handlerList[T]) add(fn func(T)) CallbackHandle {
	l.nextID++
	id := l.nextID
	l.items = append(l.items, handler[T]{id: id, fn: fn})
	return CallbackHandle{id: id, remove: l.remove}
}

func (l *handlerList[T]) remove(id uint32) {
	for i := range l.items {
		if l.items[i].id == id {
			copy(l.items[i:], l.items[i+1:])
			l.items[len(l.items)-1] = handler[T]{}
			l.items = l.items[:len(l.items)-1]
			return
		}
	}
}

func (l *handlerList[T]) emit(v T) {
	if len(l.items) == 0 {
		return
	}
	snapshot := make([]handler[T], len(l.items))
	copy(snapshot, l.items)
	for _, h := range snapshot {
		if l.has(h.id) {
			h.fn(v)
		}
	}
}

func (l *handlerList[T]) has(id uint32) bool {
	for i := range l.items {
		if l.items[i].id == id {
			return true
		}
	}
	return false
}
