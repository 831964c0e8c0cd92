package room

import (
	"math"
	"math/rand"
)

const (
	// spawnAttempts bounds the random search before falling back to center.
	spawnAttempts = 10
	// MinSpawnSeparation is the required distance to every occupant, in
	// world units. Fixed for all room types.
	MinSpawnSeparation = 50.0
)

// SpawnPosition is an ephemeral candidate starting point. It is consumed
// immediately to initialize a new player and never persisted.
type SpawnPosition struct {
	X float64
	Y float64
}

// PlaceSpawn picks a starting point near the world center. Up to ten random
// candidates inside the spawn radius are tested against the bounds and the
// clear predicate (the room behavior's peer-distance check); the first valid
// one wins. When every attempt fails the exact center is returned without
// re-checking separation, so a crowded center still yields a usable point.
func PlaceSpawn(bounds WorldBounds, radius float64, rng *rand.Rand, clear func(x, y float64) bool) SpawnPosition {
	centerX := bounds.MinX + (bounds.MaxX-bounds.MinX)/2
	centerY := bounds.MinY + (bounds.MaxY-bounds.MinY)/2

	for i := 0; i < spawnAttempts; i++ {
		angle := rng.Float64() * 2 * math.Pi
		distance := rng.Float64() * radius
		x := math.Round(centerX + math.Cos(angle)*distance)
		y := math.Round(centerY + math.Sin(angle)*distance)
		if !bounds.Contains(x, y) {
			continue
		}
		if clear != nil && !clear(x, y) {
			continue
		}
		return SpawnPosition{X: x, Y: y}
	}

	return SpawnPosition{X: centerX, Y: centerY}
}

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}
