// internal/delivery/telegram/app/bot/guard/ring.go
package guard

// recentRing - множество недавно виденных ключей фиксированной ёмкости.
// Кольцевой буфер хранит порядок добавления, companion-map даёт O(1)
// проверку членства; при переполнении всегда вытесняется самый старый
// ключ, тоже за O(1).
type recentRing[K comparable] struct {
	capacity int
	order    []K
	pos      int
	full     bool
	seen     map[K]struct{}
}

func newRecentRing[K comparable](capacity int) *recentRing[K] {
	return &recentRing[K]{
		capacity: capacity,
		order:    make([]K, capacity),
		seen:     make(map[K]struct{}, capacity),
	}
}

// Contains проверяет членство без изменения состояния
func (r *recentRing[K]) Contains(key K) bool {
	_, exists := r.seen[key]
	return exists
}

// Add добавляет ключ, вытесняя самый старый при переполнении.
// Повторное добавление уже известного ключа - no-op.
func (r *recentRing[K]) Add(key K) {
	if _, exists := r.seen[key]; exists {
		return
	}

	if r.full {
		delete(r.seen, r.order[r.pos])
	}

	r.order[r.pos] = key
	r.seen[key] = struct{}{}

	r.pos++
	if r.pos == r.capacity {
		r.pos = 0
		r.full = true
	}
}

// Len возвращает текущее число отслеживаемых ключей
func (r *recentRing[K]) Len() int {
	return len(r.seen)
}
