package chat

// Turn is one message in a section's review cycle.
type Turn struct {
	Role    Role
	Content string
	Round   int
}

// Log is an append-only conversation log with value semantics: Append returns
// a new Log and never mutates the receiver, so a Log handed to the state
// machine cannot be changed behind its back.
type Log struct {
	turns []Turn
}

// Append returns a new Log extended by one turn.
func (l Log) Append(t Turn) Log {
	turns := make([]Turn, len(l.turns), len(l.turns)+1)
	copy(turns, l.turns)
	return Log{turns: append(turns, t)}
}

// Len returns the number of turns taken so far.
func (l Log) Len() int {
	return len(l.turns)
}

// Last returns the most recent turn, if any.
func (l Log) Last() (Turn, bool) {
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}

// LastByRole returns the most recent turn spoken by the given role.
func (l Log) LastByRole(role Role) (Turn, bool) {
	for i := len(l.turns) - 1; i >= 0; i-- {
		if l.turns[i].Role == role {
			return l.turns[i], true
		}
	}
	return Turn{}, false
}

// Turns returns a copy of all turns in order.
func (l Log) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}
