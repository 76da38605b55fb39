package model

// Session is the authenticated identity held by the client.
type Session struct {
	Token    string
	Username string
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.Username != ""
}
