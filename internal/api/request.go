package api

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rickgao/betfair-soap/internal/version"
)

// response is a raw HTTP exchange result.
type response struct {
	status int
	body   []byte
}

// post sends a SOAP envelope to url with the SOAPAction header set to op.
// Gzip-encoded bodies are inflated.
func (c *Client) post(ctx context.Context, url string, op OperationName, envelope []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", string(op))
	req.Header.Set("User-Agent", version.UserAgent())
	// Set explicitly so the transport leaves the body compressed and we inflate it.
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	var r io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("inflate response: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return &response{status: resp.StatusCode, body: body}, nil
}
