package world

import (
	"fmt"
	"strings"
)

// EntityType tags an indexed entity. Values combine into query masks.
type EntityType uint16

const (
	TypePlayer     EntityType = 0x001
	TypeMob        EntityType = 0x002
	TypePet        EntityType = 0x004
	TypeHomunculus EntityType = 0x008
	TypeMercenary  EntityType = 0x010
	TypeItem       EntityType = 0x020
	TypeSkill      EntityType = 0x040
	TypeNPC        EntityType = 0x080
	TypeChat       EntityType = 0x100
	TypeElemental  EntityType = 0x200

	TypeNone EntityType = 0
	TypeAll  EntityType = 0xFFF

	// TypeChar is the set of entities that occupy a cell for stacking purposes.
	TypeChar = TypePlayer | TypeMob | TypePet | TypeHomunculus | TypeMercenary | TypeElemental
)

var typeNames = []struct {
	t    EntityType
	name string
}{
	{TypePlayer, "player"},
	{TypeMob, "mob"},
	{TypePet, "pet"},
	{TypeHomunculus, "homunculus"},
	{TypeMercenary, "mercenary"},
	{TypeItem, "item"},
	{TypeSkill, "skill"},
	{TypeNPC, "npc"},
	{TypeChat, "chat"},
	{TypeElemental, "elemental"},
}

func (t EntityType) String() string {
	switch t {
	case TypeNone:
		return "none"
	case TypeAll:
		return "all"
	}
	var parts []string
	for _, tn := range typeNames {
		if t&tn.t != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return fmt.Sprintf("type(%#x)", uint16(t))
	}
	return strings.Join(parts, "|")
}

// ParseEntityMask parses "player|mob", "all" or a single type name.
func ParseEntityMask(s string) (EntityType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" {
		return TypeAll, nil
	}
	var mask EntityType
	for part := range strings.SplitSeq(s, "|") {
		part = strings.TrimSpace(part)
		found := false
		for _, tn := range typeNames {
			if tn.name == part {
				mask |= tn.t
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown entity type %q", part)
		}
	}
	return mask, nil
}

// Entity is the core's record of an externally owned game object.
type Entity struct {
	ID   uint32
	Map  MapID
	X, Y int
	Type EntityType
}

// Handle addresses an indexed entity on one map. The zero Handle is never valid;
// a handle goes stale once its entity is removed.
type Handle struct {
	m    MapID
	slot uint32
	gen  uint32
}

// Map returns the map the handle was issued by.
func (h Handle) Map() MapID {
	return h.m
}

// IsZero reports whether h was never issued.
func (h Handle) IsZero() bool {
	return h.gen == 0
}
