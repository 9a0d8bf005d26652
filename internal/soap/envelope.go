// Package soap renders operation calls into SOAP 1.1 request envelopes.
//
// Build is a pure function of its Request: parameters are emitted in schema
// order, unqualified, inside a <request> element that starts with the API
// header carrying the session token.
package soap

import (
	"bytes"
	"encoding/xml"
	"fmt"

	"github.com/rickgao/betfair-soap/internal/validate"
)

// Service identifies which remote service an operation belongs to.
type Service string

const (
	ServiceGlobal   Service = "global"
	ServiceExchange Service = "exchange"
)

// Namespace returns the target namespace of the service.
func (s Service) Namespace() string {
	switch s {
	case ServiceGlobal:
		return "http://www.betfair.com/publicapi/v3/BFGlobalService/"
	case ServiceExchange:
		return "http://www.betfair.com/publicapi/v5/BFExchangeService/"
	default:
		return ""
	}
}

const (
	envelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"
	xsdNS      = "http://www.w3.org/2001/XMLSchema"
	xsiNS      = "http://www.w3.org/2001/XMLSchema-instance"

	// clientStamp is echoed by the server; the client does not use it.
	clientStamp = "0"
)

// Request describes one call to render.
type Request struct {
	Operation    string
	Service      Service
	SessionToken string // omitted when empty
	Schema       validate.Schema
	Args         validate.Args
}

// Build renders r into a SOAP envelope. Arguments not declared by the schema are
// ignored; callers gate arguments with validate.Validate first.
func Build(r Request) ([]byte, error) {
	ns := r.Service.Namespace()
	if ns == "" {
		return nil, fmt.Errorf("build %s: unknown service %q", r.Operation, r.Service)
	}
	if r.Operation == "" {
		return nil, fmt.Errorf("build request: operation is required")
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	w := &writer{enc: xml.NewEncoder(&buf)}
	w.start("soap:Envelope",
		attr("xmlns:soap", envelopeNS),
		attr("xmlns:xsd", xsdNS),
		attr("xmlns:xsi", xsiNS),
	)
	w.start("soap:Body")
	w.start("bf:"+r.Operation, attr("xmlns:bf", ns))
	w.start("request")

	w.start("header")
	w.leaf("clientStamp", clientStamp)
	if r.SessionToken != "" {
		w.leaf("sessionToken", r.SessionToken)
	}
	w.end("header")

	w.params(r.Schema, r.Args)

	w.end("request")
	w.end("bf:" + r.Operation)
	w.end("soap:Body")
	w.end("soap:Envelope")

	if w.err == nil {
		w.err = w.enc.Flush()
	}
	if w.err != nil {
		return nil, fmt.Errorf("build %s: %w", r.Operation, w.err)
	}
	return buf.Bytes(), nil
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}

// writer wraps an encoder and keeps the first error.
type writer struct {
	enc *xml.Encoder
	err error
}

func (w *writer) token(t xml.Token) {
	if w.err == nil {
		w.err = w.enc.EncodeToken(t)
	}
}

func (w *writer) start(name string, attrs ...xml.Attr) {
	w.token(xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs})
}

func (w *writer) end(name string) {
	w.token(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *writer) leaf(name, text string) {
	w.start(name)
	w.token(xml.CharData(text))
	w.end(name)
}

func (w *writer) params(schema validate.Schema, args validate.Args) {
	for _, p := range schema {
		value, ok := args[p.Name]
		if !ok {
			continue
		}

		switch p.Type {
		case validate.TagRecords:
			records, ok := validate.AsRecords(value)
			if !ok {
				w.fail(p.Name, value)
				return
			}
			w.start(p.Name)
			for _, rec := range records {
				w.start(p.Item)
				w.params(p.Elem, rec)
				w.end(p.Item)
			}
			w.end(p.Name)

		case validate.TagArrayInt:
			items, ok := validate.Ints(value)
			if !ok {
				w.fail(p.Name, value)
				return
			}
			w.start(p.Name)
			for _, s := range items {
				w.leaf("int", s)
			}
			w.end(p.Name)

		default:
			text, ok := validate.Text(value)
			if !ok {
				w.fail(p.Name, value)
				return
			}
			w.leaf(p.Name, text)
		}
	}
}

func (w *writer) fail(name string, value any) {
	if w.err == nil {
		w.err = fmt.Errorf("parameter %s: cannot render %T", name, value)
	}
}
