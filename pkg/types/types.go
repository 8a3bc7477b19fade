package types

// Issue is an immutable snapshot of a tracker issue, fetched per request.
type Issue struct {
	Key         string
	Project     string
	Summary     string
	Description string
	Status      string
	Assignee    string
	Reporter    string
	Priority    string
	URL         string
}

// Query is a tracker search expression. When SuppressErrors is set, any
// underlying failure is converted to an empty result instead of an error.
type Query struct {
	JQL            string
	SuppressErrors bool
}

// User identifies the chat-side sender of a message.
type User struct {
	ID          string
	MentionName string
	Name        string
}

// Message is one inbound chat message. Addressed is true when the message
// was directed at the bot (direct message or leading mention).
type Message struct {
	ID        string
	User      User
	Room      string
	Text      string
	Addressed bool
}
