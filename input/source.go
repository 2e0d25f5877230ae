package input

// Source produces the input snapshot for a tick when nothing is at a
// keyboard.
type Source interface {
	Next(tick int) (Snapshot, error)
}

// Hold is a Source that keeps the same directions held on every tick.
type Hold Set

func (h Hold) Next(int) (Snapshot, error) {
	return Snapshot{Held: Set(h)}, nil
}

// Replay feeds a recorded sequence, then nothing.
type Replay []Snapshot

func (r Replay) Next(tick int) (Snapshot, error) {
	if tick < 0 || tick >= len(r) {
		return Snapshot{}, nil
	}
	return r[tick], nil
}
