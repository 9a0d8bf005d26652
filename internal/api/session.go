package api

import (
	"github.com/google/uuid"

	"github.com/rickgao/betfair-soap/internal/xmltree"
)

// Session holds the diagnostics of the most recent call. Every field is cleared
// when a call starts.
type Session struct {
	RequestID  uuid.UUID
	Operation  OperationName
	Request    []byte
	Response   []byte
	Tree       *xmltree.Node
	HeaderCode string
	BodyCode   string
	Message    string
}

// Err returns the combined error of the call: the header code when it is set and
// not OK, otherwise the body code when it is not OK, otherwise the local failure
// message. Empty after a successful call.
func (s *Session) Err() string {
	if code := combine(s.HeaderCode, s.BodyCode); code != "" && code != CodeOK {
		return code
	}
	return s.Message
}

// Session returns a copy of the last call's diagnostics.
func (c *Client) Session() Session {
	return c.session
}

// LastRequest returns the envelope sent by the last call.
func (c *Client) LastRequest() []byte {
	return c.session.Request
}

// LastResponse returns the raw response body of the last call.
func (c *Client) LastResponse() []byte {
	return c.session.Response
}

// LastTree returns the parsed response of the last call.
func (c *Client) LastTree() *xmltree.Node {
	return c.session.Tree
}

// HeaderError returns the header error code of the last call.
func (c *Client) HeaderError() string {
	return c.session.HeaderCode
}

// BodyError returns the body error code of the last call.
func (c *Client) BodyError() string {
	return c.session.BodyCode
}

// Err returns the combined error string of the last call.
func (c *Client) Err() string {
	return c.session.Err()
}

// RequestID returns the id assigned to the last call.
func (c *Client) RequestID() uuid.UUID {
	return c.session.RequestID
}

// SessionToken returns the current session token. It survives across calls and
// is replaced whenever a response carries a new one.
func (c *Client) SessionToken() string {
	return c.token
}

// SetSessionToken installs a token obtained elsewhere.
func (c *Client) SetSessionToken(token string) {
	c.token = token
}
