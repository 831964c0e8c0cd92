package room

import (
	"math/rand"
	"testing"
)

func testBounds() WorldBounds {
	return WorldBounds{MinX: 0, MinY: 0, MaxX: 1600, MaxY: 1200}
}

func TestPlaceSpawn_AlwaysWithinBounds(t *testing.T) {
	bounds := testBounds()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		pos := PlaceSpawn(bounds, 200, rng, nil)
		if !bounds.Contains(pos.X, pos.Y) {
			t.Fatalf("iteration %d: spawn (%v, %v) outside bounds", i, pos.X, pos.Y)
		}
	}
}

func TestPlaceSpawn_GivesUpAfterTenAttempts(t *testing.T) {
	bounds := testBounds()
	rng := rand.New(rand.NewSource(1))

	attempts := 0
	pos := PlaceSpawn(bounds, 200, rng, func(x, y float64) bool {
		attempts++
		return false
	})

	if attempts != 10 {
		t.Fatalf("expected exactly 10 attempts, got %d", attempts)
	}
	if pos.X != 800 || pos.Y != 600 {
		t.Fatalf("expected fallback to exact center (800, 600), got (%v, %v)", pos.X, pos.Y)
	}
}

func TestPlaceSpawn_FallbackIgnoresSeparation(t *testing.T) {
	// An occupant parked on the exact center must not change the fallback.
	bounds := testBounds()
	rng := rand.New(rand.NewSource(7))

	pos := PlaceSpawn(bounds, 200, rng, func(x, y float64) bool { return false })
	if pos.X != 800 || pos.Y != 600 {
		t.Fatalf("fallback must be the exact center even when occupied, got (%v, %v)", pos.X, pos.Y)
	}
}

func TestPlaceSpawn_FirstFitWins(t *testing.T) {
	bounds := testBounds()
	rng := rand.New(rand.NewSource(3))

	attempts := 0
	pos := PlaceSpawn(bounds, 200, rng, func(x, y float64) bool {
		attempts++
		return true
	})

	if attempts != 1 {
		t.Fatalf("expected the first valid candidate to win, saw %d attempts", attempts)
	}
	if Distance(pos.X, pos.Y, 800, 600) > 200+1 {
		t.Fatalf("spawn (%v, %v) outside the configured radius", pos.X, pos.Y)
	}
	if pos.X != float64(int(pos.X)) || pos.Y != float64(int(pos.Y)) {
		t.Fatalf("spawn (%v, %v) not rounded to integers", pos.X, pos.Y)
	}
}

func TestPlaceSpawn_RespectsSeparationWhenPossible(t *testing.T) {
	bounds := testBounds()
	occupant := SpawnPosition{X: 800, Y: 600}

	clear := func(x, y float64) bool {
		return Distance(x, y, occupant.X, occupant.Y) >= MinSpawnSeparation
	}

	hits := 0
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		pos := PlaceSpawn(bounds, 200, rng, clear)
		if pos.X == 800 && pos.Y == 600 {
			continue // fallback, allowed
		}
		if Distance(pos.X, pos.Y, occupant.X, occupant.Y) < MinSpawnSeparation {
			t.Fatalf("seed %d: accepted spawn (%v, %v) within min separation", seed, pos.X, pos.Y)
		}
		hits++
	}
	if hits == 0 {
		t.Fatalf("expected at least one non-fallback placement across 50 seeds")
	}
}
