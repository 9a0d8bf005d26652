package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/betfair-soap/internal/soap"
	"github.com/rickgao/betfair-soap/internal/validate"
	"github.com/rickgao/betfair-soap/internal/xmltree"
)

// Result is the Result element of a successful response.
type Result struct {
	Op   OperationName
	Node *xmltree.Node
}

// Value returns the text at path below the Result element.
func (r *Result) Value(path ...string) string {
	return r.Node.Value(path...)
}

// Call gates args against the operation's schema, sends the request and checks
// the response codes. It succeeds only when the body error code is OK and the
// header code, when present, is OK. Validation failures are returned before any
// network use.
//
// The last call's diagnostics are available from Session and the getters.
func (c *Client) Call(ctx context.Context, name OperationName, args validate.Args) (*Result, error) {
	c.session = Session{RequestID: uuid.New(), Operation: name}
	start := time.Now()

	res, err := c.call(ctx, name, args)
	if err != nil {
		c.session.Message = err.Error()

		var re *RemoteError
		var ve *validate.ValidationError
		switch {
		case errors.As(err, &re):
			c.logger.Warn("soap call rejected",
				"op", name,
				"request_id", c.session.RequestID,
				"header_code", re.HeaderCode,
				"body_code", re.BodyCode,
			)
		case errors.As(err, &ve):
			c.logger.Debug("soap call rejected locally",
				"op", name,
				"error", err,
			)
		default:
			c.logger.Warn("soap call failed",
				"op", name,
				"request_id", c.session.RequestID,
				"error", err,
			)
		}
		return nil, err
	}

	c.logger.Debug("soap call",
		"op", name,
		"request_id", c.session.RequestID,
		"duration", time.Since(start),
	)
	return res, nil
}

func (c *Client) call(ctx context.Context, name OperationName, args validate.Args) (*Result, error) {
	op, ok := operations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, name)
	}
	if args == nil {
		args = validate.Args{}
	}

	if err := validate.Validate(op.Schema, args); err != nil {
		return nil, err
	}

	url, err := c.route(op, args)
	if err != nil {
		return nil, err
	}

	envelope, err := soap.Build(soap.Request{
		Operation:    string(name),
		Service:      op.Service,
		SessionToken: c.token,
		Schema:       op.wireSchema(),
		Args:         args,
	})
	if err != nil {
		return nil, err
	}
	c.session.Request = envelope

	resp, err := c.post(ctx, url, name, envelope)
	if err != nil {
		return nil, &TransportError{Op: name, Err: err}
	}
	c.session.Response = resp.body

	tree, err := xmltree.Parse(resp.body)
	if err != nil {
		if resp.status >= http.StatusBadRequest {
			return nil, &TransportError{Op: name, StatusCode: resp.status, Err: errors.New(http.StatusText(resp.status))}
		}
		return nil, &ProtocolParseError{Op: name, Err: err}
	}
	c.session.Tree = tree

	return c.inspect(name, resp.status, tree)
}

// inspect extracts the error codes and session token from a parsed response.
func (c *Client) inspect(name OperationName, status int, tree *xmltree.Node) (*Result, error) {
	body := tree.Child("Body")
	if tree.Name != "Envelope" || body == nil {
		return nil, &ProtocolParseError{Op: name, Err: errors.New("missing soap body")}
	}

	if fault := body.Child("Fault"); fault != nil {
		c.session.BodyCode = fault.Value("faultcode")
		return nil, &RemoteError{
			Op:       name,
			BodyCode: c.session.BodyCode,
			Fault:    fault.Value("faultstring"),
		}
	}

	if status >= http.StatusBadRequest {
		return nil, &TransportError{Op: name, StatusCode: status, Err: errors.New(http.StatusText(status))}
	}

	if len(body.Children) == 0 {
		return nil, &ProtocolParseError{Op: name, Err: errors.New("empty soap body")}
	}
	result := body.Children[0].Child("Result")
	if result == nil {
		return nil, &ProtocolParseError{Op: name, Err: fmt.Errorf("%s has no Result", body.Children[0].Name)}
	}

	c.session.HeaderCode = result.Value("header", "errorCode")
	c.session.BodyCode = result.Value("errorCode")

	if token := result.Value("header", "sessionToken"); token != "" {
		c.token = token
	}

	header := c.session.HeaderCode
	if c.session.BodyCode != CodeOK || (header != "" && header != CodeOK) {
		return nil, &RemoteError{Op: name, HeaderCode: header, BodyCode: c.session.BodyCode}
	}

	return &Result{Op: name, Node: result}, nil
}

// route picks the endpoint for op. Exchange operations are routed by their
// gated exchangeId argument.
func (c *Client) route(op Operation, args validate.Args) (string, error) {
	if op.Service == soap.ServiceGlobal {
		return c.endpoints.Global, nil
	}

	raw, _ := validate.Text(args[ExchangeIDParam])
	id, err := strconv.Atoi(raw)
	if err != nil {
		return "", fmt.Errorf("route %s: exchange id %q: %w", op.Name, raw, err)
	}
	url, ok := c.endpoint(Exchange(id))
	if !ok {
		return "", fmt.Errorf("route %s: unknown exchange %d", op.Name, id)
	}
	return url, nil
}
