package app

import "time"

// TickMsg refreshes the transmit log and run state.
type TickMsg time.Time

// CommitMsg asks the controller to apply the form and restart the
// simulator. It travels through the event queue so commits never overlap.
type CommitMsg struct{}
