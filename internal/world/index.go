package world

import (
	"fmt"
	"iter"
)

// Insert places e into the block containing (e.X, e.Y).
func (m *Map) Insert(e Entity) (Handle, error) {
	if e.Map != m.id {
		return Handle{}, fmt.Errorf("%w: entity %d on map %d, inserting into %d", ErrMapMismatch, e.ID, e.Map, m.id)
	}
	if !m.InBounds(e.X, e.Y) {
		return Handle{}, fmt.Errorf("%w: entity %d at (%d, %d) on %s", ErrOutOfRange, e.ID, e.X, e.Y, m.name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.arena.byID[e.ID]; ok {
		return Handle{}, fmt.Errorf("%w: entity %d on %s", ErrDuplicateEntity, e.ID, m.name)
	}

	s := m.arena.alloc(e)
	m.link(s, m.blockIndex(e.X, e.Y))
	return Handle{m: m.id, slot: s, gen: m.arena.slots[s].gen}, nil
}

// Remove unlinks the entity addressed by h. Stale or foreign handles are a
// no-op and report false, so racing cleanup paths may both call it.
func (m *Map) Remove(h Handle) bool {
	if h.m != m.id {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.arena.live(h) == nil {
		return false
	}
	m.unlink(h.slot)
	m.arena.release(h.slot)
	return true
}

// RemoveByID unlinks the entity with the given id, if indexed.
func (m *Map) RemoveByID(id uint32) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.arena.byID[id]
	if !ok {
		return false
	}
	m.unlink(s)
	m.arena.release(s)
	return true
}

// Move updates the entity position. Within the same block only the
// coordinates change; otherwise the entity is relinked under the write
// lock, so readers never see it in both blocks or in neither.
func (m *Map) Move(h Handle, x, y int) error {
	if h.m != m.id {
		return fmt.Errorf("%w: handle for map %d used on %s", ErrMapMismatch, h.m, m.name)
	}
	if !m.InBounds(x, y) {
		return fmt.Errorf("%w: (%d, %d) on %s", ErrOutOfRange, x, y, m.name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sl := m.arena.live(h)
	if sl == nil {
		return ErrNotIndexed
	}

	if bi := m.blockIndex(x, y); bi != sl.block {
		m.unlink(h.slot)
		m.link(h.slot, bi)
	}
	sl.ent.X, sl.ent.Y = x, y
	return nil
}

// Lookup returns the handle of an indexed entity id.
func (m *Map) Lookup(id uint32) (Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.arena.byID[id]
	if !ok {
		return Handle{}, false
	}
	return Handle{m: m.id, slot: s, gen: m.arena.slots[s].gen}, true
}

// Get returns the current record for h.
func (m *Map) Get(h Handle) (Entity, bool) {
	if h.m != m.id {
		return Entity{}, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	sl := m.arena.live(h)
	if sl == nil {
		return Entity{}, false
	}
	return sl.ent, true
}

// Len returns the number of indexed entities.
func (m *Map) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.arena.len()
}

// Query yields entities matching mask in every block within radius
// blocks (Chebyshev distance) of the block containing (cx, cy).
// Radius 1 is the usual 3x3 neighbourhood; radius 0 is the center block.
//
// The sequence is lazy and restartable. Each block's members are copied
// under the read lock and yielded after it is released, so the consumer
// may mutate the map while iterating; such changes are seen by blocks not
// yet visited.
func (m *Map) Query(cx, cy, radius int, mask EntityType) (iter.Seq[Entity], error) {
	if !m.InBounds(cx, cy) {
		return nil, fmt.Errorf("%w: query center (%d, %d) on %s", ErrOutOfRange, cx, cy, m.name)
	}
	if radius < 0 {
		return nil, fmt.Errorf("%w: negative radius %d", ErrOutOfRange, radius)
	}

	// past the grid edge every radius covers the same blocks
	radius = min(radius, max(m.wb, m.hb))

	bx, by := BlockCoord(cx, cy)
	bx0, by0 := max(bx-radius, 0), max(by-radius, 0)
	bx1, by1 := min(bx+radius, m.wb-1), min(by+radius, m.hb-1)

	return func(yield func(Entity) bool) {
		var buf []Entity
		for y := by0; y <= by1; y++ {
			for x := bx0; x <= bx1; x++ {
				buf = m.collect(buf[:0], int32(x+y*m.wb), mask, nil)
				for _, e := range buf {
					if !yield(e) {
						return
					}
				}
			}
		}
	}, nil
}

// QueryArea yields entities matching mask positioned inside the cell
// rectangle (x0, y0)-(x1, y1), inclusive and clipped to the map.
func (m *Map) QueryArea(x0, y0, x1, y1 int, mask EntityType) iter.Seq[Entity] {
	x0, y0, x1, y1, ok := m.clip(x0, y0, x1, y1)
	if !ok {
		return func(func(Entity) bool) {}
	}

	inside := func(e Entity) bool {
		return e.X >= x0 && e.X <= x1 && e.Y >= y0 && e.Y <= y1
	}
	bx0, by0 := BlockCoord(x0, y0)
	bx1, by1 := BlockCoord(x1, y1)

	return func(yield func(Entity) bool) {
		var buf []Entity
		for by := by0; by <= by1; by++ {
			for bx := bx0; bx <= bx1; bx++ {
				buf = m.collect(buf[:0], int32(bx+by*m.wb), mask, inside)
				for _, e := range buf {
					if !yield(e) {
						return
					}
				}
			}
		}
	}
}

// collect appends the members of block bi matching mask and keep.
func (m *Map) collect(dst []Entity, bi int32, mask EntityType, keep func(Entity) bool) []Entity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.blocks[bi].members {
		e := m.arena.slots[s].ent
		if e.Type&mask == 0 {
			continue
		}
		if keep != nil && !keep(e) {
			continue
		}
		dst = append(dst, e)
	}
	return dst
}

// CountAt returns the number of entities matching mask at exactly (x, y).
func (m *Map) CountAt(x, y int, mask EntityType) int {
	if !m.InBounds(x, y) {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countAtLocked(x, y, mask)
}

func (m *Map) countAtLocked(x, y int, mask EntityType) int {
	n := 0
	for _, s := range m.blocks[m.blockIndex(x, y)].members {
		e := &m.arena.slots[s].ent
		if e.Type&mask != 0 && e.X == x && e.Y == y {
			n++
		}
	}
	return n
}
