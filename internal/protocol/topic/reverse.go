package topic

// Reverse returns the topic a reply to a message received on t must be
// published on. State and App topics have no reply side and yield false.
func Reverse(t Topic) (Topic, bool) {
	switch v := t.(type) {
	case Ping:
		return Pong{}, true
	case Pong:
		return Ping{}, true
	case Agent:
		v.Direction = v.Direction.Reverse()
		return v, true
	}
	return nil, false
}

// Reversible reports whether Reverse is defined for t.
func Reversible(t Topic) bool {
	_, ok := Reverse(t)
	return ok
}
