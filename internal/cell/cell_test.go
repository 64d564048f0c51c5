package cell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromGat(t *testing.T) {
	tests := []struct {
		code  byte
		want  Cell
		wall  bool
		cliff bool
		water bool
	}{
		{0, Walkable | Shootable, false, false, false},
		{1, 0, true, false, false},
		{2, Walkable | Shootable, false, false, false},
		{3, Walkable | Shootable | Water, false, false, true},
		{4, Walkable | Shootable, false, false, false},
		{5, Shootable, false, true, false},
		{6, Walkable | Shootable, false, false, false},
		{7, 0, true, false, false},
		{255, 0, true, false, false},
	}

	for _, tt := range tests {
		c := FromGat(tt.code)
		assert.Equal(t, tt.want, c, "code %d", tt.code)
		assert.Equal(t, tt.wall, c.IsWall(), "wall code %d", tt.code)
		assert.Equal(t, tt.cliff, c.IsCliff(), "cliff code %d", tt.code)
		assert.Equal(t, tt.water, c.Has(Water), "water code %d", tt.code)
		assert.Zero(t, c.Dynamic(), "code %d must not set dynamic bits", tt.code)
	}
}

func TestGatRoundTrip(t *testing.T) {
	for _, code := range []byte{GatGround, GatWall, GatWater, GatCliff} {
		assert.Equal(t, code, FromGat(code).Gat())
	}
	// dynamic bits do not change the terrain code
	assert.Equal(t, GatCliff, FromGat(GatCliff).With(Basilica|NoChat).Gat())
}

func TestCellBits(t *testing.T) {
	c := FromGat(GatGround).With(LandProtector)

	assert.True(t, c.Has(LandProtector))
	assert.True(t, c.Has(Walkable|Shootable))
	assert.False(t, c.Has(LandProtector|Maelstrom))
	assert.Equal(t, Walkable|Shootable, c.Terrain())
	assert.Equal(t, LandProtector, c.Dynamic())

	c = c.Without(LandProtector)
	assert.Zero(t, c.Dynamic())

	assert.True(t, IsDynamic(Maelstrom|NPC))
	assert.False(t, IsDynamic(Walkable))
	assert.False(t, IsDynamic(Water|NPC))
	assert.False(t, IsDynamic(0))
}

func TestCheckEval(t *testing.T) {
	ground := FromGat(GatGround)
	water := FromGat(GatWater)
	wall := FromGat(GatWall)
	cliff := FromGat(GatCliff)

	assert.True(t, CheckPass.Eval(ground, false))
	assert.False(t, CheckPass.Eval(ground, true))
	assert.True(t, CheckReach.Eval(ground, true))
	assert.True(t, CheckNoPass.Eval(ground, true))
	assert.False(t, CheckNoReach.Eval(ground, true))

	// water alone never blocks
	assert.True(t, CheckPass.Eval(water, false))
	assert.True(t, CheckWater.Eval(water, false))

	assert.True(t, CheckWall.Eval(wall, false))
	assert.False(t, CheckPass.Eval(wall, false))
	assert.True(t, CheckNoReach.Eval(wall, false))

	assert.True(t, CheckCliff.Eval(cliff, false))
	assert.False(t, CheckWall.Eval(cliff, false))
	assert.False(t, CheckReach.Eval(cliff, false))

	assert.True(t, CheckStack.Eval(ground, true))
	assert.False(t, CheckStack.Eval(ground, false))

	flagged := ground.With(Maelstrom)
	assert.True(t, CheckMaelstrom.Eval(flagged, false))
	assert.False(t, CheckBasilica.Eval(flagged, false))
}

func TestCheckEval_WallNeverPassable(t *testing.T) {
	for code := range 256 {
		c := FromGat(byte(code))
		for _, stacked := range []bool{false, true} {
			assert.False(t, CheckWall.Eval(c, stacked) && CheckPass.Eval(c, stacked),
				"code %d stacked=%v is both wall and passable", code, stacked)
		}
	}
}

func TestCheckOutOfBounds(t *testing.T) {
	for c := CheckWall; c <= CheckMaelstrom; c++ {
		want := c == CheckNoPass || c == CheckNoReach
		assert.Equal(t, want, c.OutOfBounds(), c.String())
	}
}

func TestCheckFlag(t *testing.T) {
	assert.Equal(t, NPC, CheckNPC.Flag())
	assert.Equal(t, NoVending, CheckNoVending.Flag())
	assert.Zero(t, CheckPass.Flag())
	assert.Zero(t, CheckWall.Flag())
}

func TestParseCheck(t *testing.T) {
	c, err := ParseCheck(" LandProtector ")
	require.NoError(t, err)
	assert.Equal(t, CheckLandProtector, c)

	for c := CheckWall; c <= CheckMaelstrom; c++ {
		got, err := ParseCheck(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	_, err = ParseCheck("lava")
	assert.Error(t, err)
	assert.Equal(t, "check(200)", Check(200).String())
}
