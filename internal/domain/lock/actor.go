package lock

// Actor identifies who asked for a lock change.
type Actor struct {
	// Hostname is the machine the request came from.
	Hostname string `json:"hostname"`
	// Username is the system user behind the request.
	Username string `json:"username"`
}

// Clone returns a copy of the actor.
func (a *Actor) Clone() *Actor {
	if a == nil {
		return nil
	}

	cloned := *a

	return &cloned
}

// String formats the actor as user@host.
func (a *Actor) String() string {
	if a == nil {
		return "<unknown>"
	}

	return a.Username + "@" + a.Hostname
}
