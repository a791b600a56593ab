package graph

// Status is the outcome of a send-request call. Duplicate sends and
// already-established friendships report success-like statuses rather
// than errors.
type Status string

const (
	StatusSent           Status = "SENT"
	StatusAlreadyFriends Status = "ALREADY_FRIENDS"
)
