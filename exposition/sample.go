package exposition

// Label is a single key="value" pair from a sample's label block.
type Label struct {
	Key   string // e.g. "job"
	Value string // raw text between the quotes, no escape handling
}

// Sample holds one parsed exposition line.
//
// Labels is nil when the line had no label block at all, and a non-nil
// empty slice when the block was present but empty ("{}").
type Sample struct {
	Name         string  // e.g. "process_start_time_seconds"
	Labels       []Label // in the order they appeared on the line
	Value        float64 // numeric value
	Timestamp    uint64  // optional trailing integer, see HasTimestamp
	HasTimestamp bool
}

// Label returns the value of the first label with the given key.
func (s Sample) Label(key string) (string, bool) {
	for _, l := range s.Labels {
		if l.Key == key {
			return l.Value, true
		}
	}
	return "", false
}
