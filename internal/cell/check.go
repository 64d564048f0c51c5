package cell

import (
	"fmt"
	"strings"
)

// Check selects what a cell query asks about.
type Check uint8

const (
	CheckWall          Check = iota // gat type 1
	CheckWater                      // gat type 3
	CheckCliff                      // gat type 5
	CheckPass                       // walkable and below the stacking limit
	CheckReach                      // walkable, stacking ignored
	CheckNoPass                     // !CheckPass
	CheckNoReach                    // !CheckReach
	CheckStack                      // stacking limit reached
	CheckNPC
	CheckBasilica
	CheckLandProtector
	CheckNoVending
	CheckNoChat
	CheckMaelstrom
)

var checkNames = [...]string{
	CheckWall:          "wall",
	CheckWater:         "water",
	CheckCliff:         "cliff",
	CheckPass:          "pass",
	CheckReach:         "reach",
	CheckNoPass:        "nopass",
	CheckNoReach:       "noreach",
	CheckStack:         "stack",
	CheckNPC:           "npc",
	CheckBasilica:      "basilica",
	CheckLandProtector: "landprotector",
	CheckNoVending:     "novending",
	CheckNoChat:        "nochat",
	CheckMaelstrom:     "maelstrom",
}

func (c Check) String() string {
	if int(c) < len(checkNames) {
		return checkNames[c]
	}
	return fmt.Sprintf("check(%d)", uint8(c))
}

// ParseCheck resolves a check by its lowercase name.
func ParseCheck(s string) (Check, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range checkNames {
		if name == s {
			return Check(i), nil
		}
	}
	return 0, fmt.Errorf("unknown cell check %q", s)
}

// Flag returns the dynamic bit read by c, or 0 for checks
// that are not plain dynamic-flag reads.
func (c Check) Flag() Cell {
	switch c {
	case CheckNPC:
		return NPC
	case CheckBasilica:
		return Basilica
	case CheckLandProtector:
		return LandProtector
	case CheckNoVending:
		return NoVending
	case CheckNoChat:
		return NoChat
	case CheckMaelstrom:
		return Maelstrom
	}
	return 0
}

// Eval answers c for a single cell. stacked tells whether the cell has
// reached the stacking limit; it only matters for CheckPass, CheckNoPass
// and CheckStack.
func (c Check) Eval(v Cell, stacked bool) bool {
	switch c {
	case CheckWall:
		return v.IsWall()
	case CheckWater:
		return v.Has(Water)
	case CheckCliff:
		return v.IsCliff()
	case CheckPass:
		return v.Has(Walkable) && !stacked
	case CheckReach:
		return v.Has(Walkable)
	case CheckNoPass:
		return !v.Has(Walkable) || stacked
	case CheckNoReach:
		return !v.Has(Walkable)
	case CheckStack:
		return stacked
	}
	if f := c.Flag(); f != 0 {
		return v.Has(f)
	}
	return false
}

// OutOfBounds is the conservative answer for coordinates off the map:
// blocked for the negated passability checks, false for everything else.
func (c Check) OutOfBounds() bool {
	return c == CheckNoPass || c == CheckNoReach
}
