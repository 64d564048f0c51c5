package world

import (
	"fmt"
	"strings"
)

// MapFlag is a map-level rule switch.
type MapFlag uint32

const (
	FlagPvP MapFlag = 1 << iota
	FlagPvPNoParty
	FlagPvPNoGuild
	FlagPvPNightmareDrop
	FlagPvPNoCalcRank
	FlagGvGCastle
	FlagGvG
	FlagGvGDungeon
	FlagGvGNoParty
)

var mapFlagNames = map[string]MapFlag{
	"pvp":               FlagPvP,
	"pvp_noparty":       FlagPvPNoParty,
	"pvp_noguild":       FlagPvPNoGuild,
	"pvp_nightmaredrop": FlagPvPNightmareDrop,
	"pvp_nocalcrank":    FlagPvPNoCalcRank,
	"gvg_castle":        FlagGvGCastle,
	"gvg":               FlagGvG,
	"gvg_dungeon":       FlagGvGDungeon,
	"gvg_noparty":       FlagGvGNoParty,
}

// ParseMapFlags combines flag names such as "pvp" or "gvg_castle".
func ParseMapFlags(names []string) (MapFlag, error) {
	var f MapFlag
	for _, n := range names {
		v, ok := mapFlagNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown map flag %q", n)
		}
		f |= v
	}
	return f, nil
}

// Flags returns every flag currently set.
func (m *Map) Flags() MapFlag {
	return MapFlag(m.flags.Load())
}

// HasFlag reports whether all bits of f are set.
func (m *Map) HasFlag(f MapFlag) bool {
	return MapFlag(m.flags.Load())&f == f
}

// SetFlag sets or clears f.
func (m *Map) SetFlag(f MapFlag, on bool) {
	if on {
		m.flags.Or(uint32(f))
	} else {
		m.flags.And(^uint32(f))
	}
}
