package wizard

import "github.com/dmitrijs2005/aihr/internal/client/countdown"

func countdownExpired(tok countdown.Token) countdown.Event {
	return countdown.Event{Token: tok, Expired: true}
}
