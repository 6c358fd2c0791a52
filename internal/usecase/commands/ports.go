package commands

// Nudger wakes the notification dispatcher after a command commits outbox
// rows. Delivery is fire-and-forget: a missed nudge only delays delivery
// until the next poll tick.
type Nudger interface {
	Nudge()
}
