package notifier

import (
	"log"
)

// Notifier delivers an alert message to one channel.
type Notifier interface {
	Name() string
	Send(text string) error
}

// Fanout sends the message to every channel and returns the names of the
// channels that succeeded. Delivery failures are logged, not propagated,
// so one dead webhook does not block the others.
func Fanout(channels []Notifier, text string) []string {
	var sent []string
	for _, n := range channels {
		if err := n.Send(text); err != nil {
			log.Printf("[ALERT] %s delivery failed: %v", n.Name(), err)
			continue
		}
		sent = append(sent, n.Name())
	}
	return sent
}
