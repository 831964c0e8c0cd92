package philosophy

import "math"

// Philosopher is a fixed point of interest in the world. The roster and the
// flavor lines come from the PhiloAgents cast; the conversational engine
// behind each figure lives outside this server.
type Philosopher struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type philosopherSeed struct {
	id       string
	name     string
	greeting string
}

var roster = []philosopherSeed{
	{"socrates", "Socrates", "I know that I know nothing. What do you claim to know?"},
	{"plato", "Plato", "Step out of the cave with me; the shadows are not the world."},
	{"aristotle", "Aristotle", "Let us examine this systematically, cause by cause."},
	{"descartes", "Rene Descartes", "You move, therefore you are. But do you think?"},
	{"leibniz", "Gottfried Wilhelm Leibniz", "Every step you take is computed. Is that all thinking is?"},
	{"ada_lovelace", "Ada Lovelace", "Machines weave patterns, but can they originate ideas?"},
	{"turing", "Alan Turing", "If you could not tell me from a machine, would it matter?"},
	{"chomsky", "Noam Chomsky", "Mimicking language is not understanding it."},
	{"searle", "John Searle", "Welcome to my room. Do you understand, or merely manipulate symbols?"},
	{"dennett", "Daniel Dennett", "Consciousness is no miracle; it is an explanation waiting to happen."},
}

// placePhilosophers arranges the roster on an evenly spaced ring around the
// world center. Placement is deterministic so every client renders the same
// agora.
func placePhilosophers(width, height float64) []Philosopher {
	centerX := width / 2
	centerY := height / 2
	ringRadius := math.Min(width, height) * 0.4

	placed := make([]Philosopher, 0, len(roster))
	step := 2 * math.Pi / float64(len(roster))
	for i, seed := range roster {
		angle := step * float64(i)
		placed = append(placed, Philosopher{
			ID:   seed.id,
			Name: seed.name,
			X:    math.Round(centerX + math.Cos(angle)*ringRadius),
			Y:    math.Round(centerY + math.Sin(angle)*ringRadius),
		})
	}
	return placed
}

// greetingFor returns the flavor line for a philosopher id.
func greetingFor(id string) (string, bool) {
	for _, seed := range roster {
		if seed.id == id {
			return seed.greeting, true
		}
	}
	return "", false
}
