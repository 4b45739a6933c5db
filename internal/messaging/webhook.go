package messaging

// WhatsApp Cloud API webhook payload shapes. Only the fields the bot reads
// are declared; everything else in the notification is ignored.

type webhookPayload struct {
	Entry []webhookEntry `json:"entry"`
}

type webhookEntry struct {
	Changes []webhookChange `json:"changes"`
}

type webhookChange struct {
	Field string       `json:"field"`
	Value webhookValue `json:"value"`
}

type webhookValue struct {
	Messages []webhookMessage `json:"messages"`
}

type webhookMessage struct {
	From string       `json:"from"`
	Type string       `json:"type"`
	Text *webhookText `json:"text"`
}

type webhookText struct {
	Body string `json:"body"`
}

// firstMessage extracts the first inbound message, mirroring the channel's
// one-message-per-notification delivery. Returns false when the notification
// carries no message (e.g. a status update).
func (p *webhookPayload) firstMessage() (webhookMessage, bool) {
	if len(p.Entry) == 0 || len(p.Entry[0].Changes) == 0 {
		return webhookMessage{}, false
	}
	change := p.Entry[0].Changes[0]
	if change.Field != "messages" || len(change.Value.Messages) == 0 {
		return webhookMessage{}, false
	}
	return change.Value.Messages[0], true
}
