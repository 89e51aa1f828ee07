package domain

// TowerMap is a dense map keyed by TowerId over a bounding rectangle.
// Cheaper than a hash map when most cells in the bounds are occupied.
type TowerMap[T any] struct {
	data   []towerMapSlot[T]
	bounds TowerRectangle
	len    uint32
}

type towerMapSlot[T any] struct {
	value   T
	present bool
}

// NewTowerMap builds an empty map over the given bounds.
func NewTowerMap[T any](bounds TowerRectangle) *TowerMap[T] {
	m := &TowerMap[T]{bounds: InvalidTowerRectangle()}
	m.ResetBounds(bounds)
	return m
}

// ResetBounds sets the bounds of the map and clears it.
func (m *TowerMap[T]) ResetBounds(bounds TowerRectangle) {
	m.bounds = bounds
	m.Clear()
}

func (m *TowerMap[T]) Bounds() TowerRectangle {
	return m.bounds
}

// Clear empties the map without affecting its bounds.
func (m *TowerMap[T]) Clear() {
	n := int(m.bounds.Area())
	if cap(m.data) < n {
		m.data = make([]towerMapSlot[T], n)
	} else {
		m.data = m.data[:n]
		for i := range m.data {
			m.data[i] = towerMapSlot[T]{}
		}
	}
	m.len = 0
}

func (m *TowerMap[T]) index(id TowerId) (int, bool) {
	if !m.bounds.Contains(id) {
		return 0, false
	}
	w, _ := m.bounds.Dimensions()
	rx := int(id.X - m.bounds.BottomLeft.X)
	ry := int(id.Y - m.bounds.BottomLeft.Y)
	return rx + ry*int(w), true
}

func (m *TowerMap[T]) Contains(id TowerId) bool {
	_, ok := m.Get(id)
	return ok
}

func (m *TowerMap[T]) Get(id TowerId) (T, bool) {
	var zero T
	i, ok := m.index(id)
	if !ok || !m.data[i].present {
		return zero, false
	}
	return m.data[i].value, true
}

// Insert puts a value in the map and returns whether the id was absent.
// Ids outside the bounds are ignored.
func (m *TowerMap[T]) Insert(id TowerId, value T) bool {
	i, ok := m.index(id)
	if !ok {
		return false
	}
	fresh := !m.data[i].present
	if fresh {
		m.len++
	}
	m.data[i] = towerMapSlot[T]{value: value, present: true}
	return fresh
}

// Remove deletes an id and returns whether it was present.
func (m *TowerMap[T]) Remove(id TowerId) bool {
	i, ok := m.index(id)
	if !ok || !m.data[i].present {
		return false
	}
	m.data[i] = towerMapSlot[T]{}
	m.len--
	return true
}

func (m *TowerMap[T]) Len() int {
	return int(m.len)
}

func (m *TowerMap[T]) IsEmpty() bool {
	return m.len == 0
}

// ForEach visits entries row by row. Stops early if f returns false.
func (m *TowerMap[T]) ForEach(f func(TowerId, T) bool) {
	m.bounds.ForEach(func(id TowerId) bool {
		if v, ok := m.Get(id); ok {
			return f(id, v)
		}
		return true
	})
}

// TowerSet is a dense set of TowerIds over a bounding rectangle.
type TowerSet struct {
	m TowerMap[struct{}]
}

func NewTowerSet(bounds TowerRectangle) *TowerSet {
	return &TowerSet{m: *NewTowerMap[struct{}](bounds)}
}

func (s *TowerSet) ResetBounds(bounds TowerRectangle) { s.m.ResetBounds(bounds) }
func (s *TowerSet) Clear()                            { s.m.Clear() }
func (s *TowerSet) Contains(id TowerId) bool          { return s.m.Contains(id) }
func (s *TowerSet) Insert(id TowerId) bool            { return s.m.Insert(id, struct{}{}) }
func (s *TowerSet) Remove(id TowerId) bool            { return s.m.Remove(id) }
func (s *TowerSet) Len() int                          { return s.m.Len() }
func (s *TowerSet) IsEmpty() bool                     { return s.m.IsEmpty() }

// ForEach visits ids row by row. Stops early if f returns false.
func (s *TowerSet) ForEach(f func(TowerId) bool) {
	s.m.ForEach(func(id TowerId, _ struct{}) bool {
		return f(id)
	})
}
