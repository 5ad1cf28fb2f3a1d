package webgl

// locationKey names a uniform within a program handle.
type locationKey struct {
	program uint32
	name    string
}

// locations hands out stable uniform handles. Asking again for the same
// program and name returns the same handle with its value refreshed, so
// a relinked program does not grow the table. Handles of a forgotten
// program are reused.
type locations[V any] struct {
	ids   map[locationKey]int32
	slots []V
	free  []int32
}

func newLocations[V any]() *locations[V] {
	return &locations[V]{ids: make(map[locationKey]int32)}
}

// put stores v for (program, name) and returns its handle.
func (l *locations[V]) put(program uint32, name string, v V) int32 {
	k := locationKey{program, name}
	if id, ok := l.ids[k]; ok {
		l.slots[id] = v
		return id
	}
	var id int32
	if n := len(l.free); n > 0 {
		id, l.free = l.free[n-1], l.free[:n-1]
		l.slots[id] = v
	} else {
		id = int32(len(l.slots))
		l.slots = append(l.slots, v)
	}
	l.ids[k] = id
	return id
}

func (l *locations[V]) get(id int32) (V, bool) {
	if id < 0 || int(id) >= len(l.slots) {
		var zero V
		return zero, false
	}
	return l.slots[id], true
}

// forget releases every handle of program.
func (l *locations[V]) forget(program uint32) {
	var zero V
	for k, id := range l.ids {
		if k.program == program {
			delete(l.ids, k)
			l.slots[id] = zero
			l.free = append(l.free, id)
		}
	}
}

func (l *locations[V]) size() int { return len(l.ids) }
