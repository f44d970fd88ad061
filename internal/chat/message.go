// Package chat defines the transport-independent chat message model the
// pipeline operates on. Adapters translate protocol messages into this form.
package chat

import "strings"

// Sender describes the author of a chat message.
type Sender struct {
	ID          string
	Login       string
	DisplayName string
	Badges      map[string]int
}

// IsPrivileged reports whether the sender carries a moderator or broadcaster
// badge. Privileged senders bypass throttling and moderation.
func (s Sender) IsPrivileged() bool {
	if s.Badges == nil {
		return false
	}
	_, mod := s.Badges["moderator"]
	_, broadcaster := s.Badges["broadcaster"]
	return mod || broadcaster
}

// Message is a single inbound chat message.
type Message struct {
	ID      string
	Channel string
	Raw     string
	Sender  Sender

	// ReplyParentLogin is the login of the user whose message this one is a
	// threaded reply to, empty otherwise.
	ReplyParentLogin string

	// IsAction marks a /me message. Action messages are neither moderated
	// nor matched against rules.
	IsAction bool
}

// Text returns the message body with the leading reply mention stripped. A
// threaded reply arrives as "@parentlogin rest of text"; the mention is
// removed case-insensitively so rule patterns see only the authored text. A
// leading mention naming anyone else is left untouched.
func (m Message) Text() string {
	if m.ReplyParentLogin == "" {
		return m.Raw
	}

	mention := "@" + m.ReplyParentLogin
	if len(m.Raw) < len(mention) {
		return m.Raw
	}
	if !strings.EqualFold(m.Raw[:len(mention)], mention) {
		return m.Raw
	}

	return strings.TrimLeft(m.Raw[len(mention):], " ")
}
