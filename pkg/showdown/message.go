package showdown

// Message is one parsed protocol message. Command is empty for bare
// room log lines. Rest keeps the raw argument text after the command
// (pipes included), Args is its pipe-split form.
type Message struct {
	Room    string
	Command string
	Rest    string
	Args    []string
}

// IsChallenge reports whether this is the login challenge
// (|challstr|KEYID|CHALLENGE). Rest carries the full "KEYID|CHALLENGE"
// string the login endpoint expects.
func (m Message) IsChallenge() bool {
	return m.Command == "challstr"
}

// IsNamedUpdateUser reports whether this is the updateuser message
// confirming the connection is logged in under a registered name.
func (m Message) IsNamedUpdateUser() bool {
	return m.Command == "updateuser" && len(m.Args) >= 2 && m.Args[1] == "1"
}
