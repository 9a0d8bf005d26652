package api

import (
	"errors"
	"fmt"

	"github.com/rickgao/betfair-soap/internal/compressed"
)

// CodeOK is the error code of a successful header or body.
const CodeOK = "OK"

// CodeNoSession is the header code returned when the session token is missing or expired.
const CodeNoSession = "NO_SESSION"

// ErrUnknownOperation is returned by Call for names outside the dispatch table.
var ErrUnknownOperation = errors.New("unknown operation")

// TransportError wraps a failure to exchange bytes with the endpoint, including
// non-XML error statuses.
type TransportError struct {
	Op         OperationName
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transport: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolParseError is returned when a response is not a well-formed envelope.
type ProtocolParseError struct {
	Op  OperationName
	Err error
}

func (e *ProtocolParseError) Error() string {
	return fmt.Sprintf("%s: parse response: %v", e.Op, e.Err)
}

func (e *ProtocolParseError) Unwrap() error { return e.Err }

// RemoteError is a business failure reported by the server.
type RemoteError struct {
	Op         OperationName
	HeaderCode string
	BodyCode   string
	Fault      string // SOAP faultstring, if the server faulted
}

func (e *RemoteError) Error() string {
	if e.Fault != "" {
		return fmt.Sprintf("%s: soap fault %s: %s", e.Op, e.BodyCode, e.Fault)
	}
	return fmt.Sprintf("%s: remote error %s", e.Op, e.Code())
}

// Code returns the header code when it is set and not OK, else the body code.
func (e *RemoteError) Code() string {
	return combine(e.HeaderCode, e.BodyCode)
}

// IsRemoteCode reports whether err is a RemoteError carrying code in its header
// or body.
func IsRemoteCode(err error, code string) bool {
	var re *RemoteError
	if !errors.As(err, &re) {
		return false
	}
	return re.HeaderCode == code || re.BodyCode == code
}

// IsFatal reports whether err means the response could not be understood:
// an unparseable envelope or a malformed compressed payload.
func IsFatal(err error) bool {
	var pe *ProtocolParseError
	if errors.As(err, &pe) {
		return true
	}
	return errors.Is(err, compressed.ErrMalformedWireFormat)
}

func combine(header, body string) string {
	if header != "" && header != CodeOK {
		return header
	}
	return body
}
