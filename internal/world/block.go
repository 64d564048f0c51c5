package world

// block holds the slots of the entities currently inside it.
// Order is irrelevant; removal swaps the last member into the hole.
type block struct {
	members []uint32
}

const noBlock = -1

// slot is one arena cell. A free slot has block == noBlock; its gen was
// bumped on release so handles issued for the previous occupant are stale.
type slot struct {
	ent   Entity
	gen   uint32
	block int32
	pos   int32 // index in blocks[block].members
}

// arena stores entity slots for one map. Callers hold the map lock.
type arena struct {
	slots []slot
	free  []uint32
	byID  map[uint32]uint32 // entity id -> slot
}

func newArena() arena {
	return arena{byID: make(map[uint32]uint32)}
}

func (a *arena) alloc(e Entity) uint32 {
	var s uint32
	if n := len(a.free); n > 0 {
		s = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		s = uint32(len(a.slots))
		a.slots = append(a.slots, slot{block: noBlock})
	}
	a.slots[s].ent = e
	a.slots[s].gen++
	a.byID[e.ID] = s
	return s
}

func (a *arena) release(s uint32) {
	sl := &a.slots[s]
	delete(a.byID, sl.ent.ID)
	sl.ent = Entity{}
	sl.block = noBlock
	sl.gen++
	a.free = append(a.free, s)
}

// live returns the slot addressed by h, or nil if h is stale.
func (a *arena) live(h Handle) *slot {
	if h.gen == 0 || int(h.slot) >= len(a.slots) {
		return nil
	}
	sl := &a.slots[h.slot]
	if sl.gen != h.gen || sl.block == noBlock {
		return nil
	}
	return sl
}

func (a *arena) len() int {
	return len(a.byID)
}

func (m *Map) link(s uint32, bi int32) {
	b := &m.blocks[bi]
	sl := &m.arena.slots[s]
	sl.block = bi
	sl.pos = int32(len(b.members))
	b.members = append(b.members, s)
}

func (m *Map) unlink(s uint32) {
	sl := &m.arena.slots[s]
	b := &m.blocks[sl.block]
	last := len(b.members) - 1
	moved := b.members[last]
	b.members[sl.pos] = moved
	m.arena.slots[moved].pos = sl.pos
	b.members = b.members[:last]
	sl.block = noBlock
}
