package tanks

import (
	"testing"

	"github.com/vovakirdan/tankduel/internal/core"
)

func TestResolveVehicleOverlapDiagonal(t *testing.T) {
	a := newTestArena()
	v1, v2 := a.Vehicles[0], a.Vehicles[1]
	place(v1, 100, 100, DirSetOf(Right, Down))
	place(v2, 120, 120, 0)

	rep := NewResolver(testConfig()).Resolve(a)

	if v1.X != 94 || v1.Y != 94 {
		t.Errorf("v1 = (%d, %d), expected (94, 94)", v1.X, v1.Y)
	}
	if v1.Blocked != DirSetOf(Right, Down) {
		t.Errorf("v1.Blocked = %s, expected down+right", v1.Blocked)
	}
	if v2.X != 120 || v2.Y != 120 || !v2.Blocked.Empty() {
		t.Errorf("v2 = (%d, %d) blocked %s, expected unchanged", v2.X, v2.Y, v2.Blocked)
	}
	if rep.Corrections != 1 {
		t.Errorf("Corrections = %d, expected 1", rep.Corrections)
	}
}

func TestResolveVehicleOverlapBothIndependent(t *testing.T) {
	a := newTestArena()
	v1, v2 := a.Vehicles[0], a.Vehicles[1]
	place(v1, 100, 100, DirSetOf(Right))
	place(v2, 126, 100, DirSetOf(Left))

	NewResolver(testConfig()).Resolve(a)

	// v1 is pushed out first, v2 is still tested against the pre-correction overlap.
	if v1.X != 94 || v2.X != 132 {
		t.Errorf("x = %d/%d, expected 94/132", v1.X, v2.X)
	}
	if v1.Blocked != DirSetOf(Right) || v2.Blocked != DirSetOf(Left) {
		t.Errorf("blocked = %s/%s, expected right/left", v1.Blocked, v2.Blocked)
	}
}

func TestResolveRulePriority(t *testing.T) {
	tests := []struct {
		name    string
		intent  DirSet
		dx, dy  int
		blocked DirSet
	}{
		{"right+down", DirSetOf(Right, Down), -6, -6, DirSetOf(Right, Down)},
		{"right+up", DirSetOf(Right, Up), -6, 6, DirSetOf(Right, Up)},
		{"left+down", DirSetOf(Left, Down), 6, -6, DirSetOf(Left, Down)},
		{"left+up", DirSetOf(Left, Up), 6, 6, DirSetOf(Left, Up)},
		{"right+left picks right", DirSetOf(Right, Left), -6, 0, DirSetOf(Right)},
		{"up+down picks down", DirSetOf(Up, Down), 0, -6, DirSetOf(Down)},
		{"three keys picks first diagonal", DirSetOf(Left, Right, Up), -6, 6, DirSetOf(Right, Up)},
		{"up", DirSetOf(Up), 0, 6, DirSetOf(Up)},
		{"idle", 0, 0, 0, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := newTestArena()
			v1, v2 := a.Vehicles[0], a.Vehicles[1]
			place(v1, 200, 200, tc.intent)
			place(v2, 210, 210, 0)

			NewResolver(testConfig()).Resolve(a)

			if v1.X != 200+tc.dx || v1.Y != 200+tc.dy {
				t.Errorf("position = (%d, %d), expected (%d, %d)", v1.X, v1.Y, 200+tc.dx, 200+tc.dy)
			}
			if v1.Blocked != tc.blocked {
				t.Errorf("Blocked = %s, expected %s", v1.Blocked, tc.blocked)
			}
		})
	}
}

func TestResolveObstacleAxis(t *testing.T) {
	a := newTestArena(core.NewRect(64, 96, 32, 32))
	v := a.Vehicles[0]
	place(v, 90, 100, DirSetOf(Left))

	NewResolver(testConfig()).Resolve(a)

	if v.X != 98 || v.Y != 100 {
		t.Errorf("position = (%d, %d), expected (98, 100)", v.X, v.Y)
	}
	if v.Blocked != DirSetOf(Left) {
		t.Errorf("Blocked = %s, expected left", v.Blocked)
	}
}

func TestResolveObstacleDiagonal(t *testing.T) {
	a := newTestArena(core.NewRect(128, 128, 32, 32))
	v := a.Vehicles[1]
	place(v, 100, 100, DirSetOf(Right, Down))

	NewResolver(testConfig()).Resolve(a)

	if v.X != 96 || v.Y != 96 {
		t.Errorf("position = (%d, %d), expected (96, 96)", v.X, v.Y)
	}
	if v.Blocked != DirSetOf(Right, Down) {
		t.Errorf("Blocked = %s, expected down+right", v.Blocked)
	}
}

func TestResolveObstacleCorrectionsAccumulate(t *testing.T) {
	a := newTestArena(core.NewRect(64, 96, 32, 32), core.NewRect(64, 128, 32, 32))
	v := a.Vehicles[0]
	place(v, 90, 110, DirSetOf(Left))

	rep := NewResolver(testConfig()).Resolve(a)

	if v.X != 106 {
		t.Errorf("X = %d, expected 106 after two corrections", v.X)
	}
	if rep.Corrections != 2 {
		t.Errorf("Corrections = %d, expected 2", rep.Corrections)
	}
}

func TestResolveUsesPreCorrectionRects(t *testing.T) {
	a := newTestArena(core.NewRect(80, 100, 32, 32))
	v1, v2 := a.Vehicles[0], a.Vehicles[1]
	place(v1, 100, 100, DirSetOf(Right))
	place(v2, 120, 100, 0)

	NewResolver(testConfig()).Resolve(a)

	// Tank push (-6) then brick push (-8), though the first already cleared the brick overlap.
	if v1.X != 86 {
		t.Errorf("X = %d, expected 86", v1.X)
	}
}

func TestResolveClearsBlocked(t *testing.T) {
	a := newTestArena()
	a.Vehicles[0].Blocked = DirSetOf(Up, Left)
	a.Vehicles[1].Blocked = DirSetOf(Down)

	NewResolver(testConfig()).Resolve(a)

	for _, v := range a.Vehicles {
		if !v.Blocked.Empty() {
			t.Errorf("%s Blocked = %s, expected none", v.Player, v.Blocked)
		}
	}
}

func TestResolveCorrectionStaysInBounds(t *testing.T) {
	a := newTestArena(core.NewRect(0, 0, 32, 32))
	v := a.Vehicles[0]
	place(v, 4, 4, DirSetOf(Right, Down))

	NewResolver(testConfig()).Resolve(a)

	if v.X != 0 || v.Y != 0 {
		t.Errorf("position = (%d, %d), expected clamped (0, 0)", v.X, v.Y)
	}
}

func TestResolveProjectileHitsVehicle(t *testing.T) {
	a := newTestArena()
	pc := testConfig().Projectile
	v2 := a.Vehicles[1]
	place(v2, 300, 300, 0)
	a.Projectiles = []Projectile{
		NewProjectile(310, 310, Up, core.Player1, pc),
		NewProjectile(312, 312, Up, core.Player1, pc),
		NewProjectile(500, 100, Up, core.Player1, pc),
		NewProjectile(320, 320, Left, core.Player1, pc),
	}

	rep := NewResolver(testConfig()).Resolve(a)

	if len(rep.Hits) != 3 {
		t.Fatalf("Hits = %v, expected 3", rep.Hits)
	}
	if v2.Lives != 0 || !v2.Dead {
		t.Errorf("v2 lives=%d dead=%v, expected 0/true", v2.Lives, v2.Dead)
	}
	if len(a.Projectiles) != 1 || a.Projectiles[0].X != 500 {
		t.Errorf("Projectiles = %+v, expected only the miss", a.Projectiles)
	}
}

func TestResolveProjectileHitsFirstVehicleOnly(t *testing.T) {
	a := newTestArena()
	v1, v2 := a.Vehicles[0], a.Vehicles[1]
	place(v1, 200, 200, 0)
	place(v2, 210, 200, 0)
	a.Projectiles = []Projectile{NewProjectile(220, 210, Right, core.Player2, testConfig().Projectile)}

	rep := NewResolver(testConfig()).Resolve(a)

	if len(rep.Hits) != 1 || rep.Hits[0] != core.Player1 {
		t.Errorf("Hits = %v, expected [P1]", rep.Hits)
	}
	if v1.Lives != 2 || v2.Lives != 3 {
		t.Errorf("lives = %d/%d, expected 2/3", v1.Lives, v2.Lives)
	}
}

func TestResolveProjectileAbsorbedByBrick(t *testing.T) {
	a := newTestArena(core.NewRect(320, 320, 32, 32))
	pc := testConfig().Projectile
	a.Projectiles = []Projectile{
		NewProjectile(330, 330, Down, core.Player1, pc),
		NewProjectile(400, 400, Down, core.Player1, pc),
	}

	rep := NewResolver(testConfig()).Resolve(a)

	if rep.Absorbed != 1 || len(a.Projectiles) != 1 {
		t.Errorf("Absorbed = %d, remaining = %d, expected 1/1", rep.Absorbed, len(a.Projectiles))
	}
}

func TestResolveVehicleHitBeforeBrick(t *testing.T) {
	a := newTestArena(core.NewRect(300, 300, 32, 32))
	v := a.Vehicles[0]
	place(v, 320, 300, 0)
	a.Projectiles = []Projectile{NewProjectile(325, 310, Left, core.Player2, testConfig().Projectile)}

	rep := NewResolver(testConfig()).Resolve(a)

	if len(rep.Hits) != 1 || rep.Absorbed != 0 {
		t.Errorf("Hits = %v Absorbed = %d, expected one hit and no absorb", rep.Hits, rep.Absorbed)
	}
}
