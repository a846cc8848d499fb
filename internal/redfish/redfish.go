// Package redfish wraps the Redfish HTTP API for the BMC operations
// the lab tools need: inventory, power control, boot order, firmware
// update, and POST code logs.
//
// The wrapper keeps a basic-auth session against the BMC and hides
// the usual nuisances: expired sessions are re-authenticated on 401,
// intermittent transport errors are retried after a session refresh,
// and read timeouts yield a synthetic response instead of an error so
// dependent code keeps working on edge cases.
package redfish

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/golang/glog"
)

// Prefix is the Redfish API endpoint root.
const Prefix = "/redfish/v1"

// StatusClientTimeout is the synthetic status for requests that timed
// out waiting on the server.
const StatusClientTimeout = 599

// Client is a Redfish connection to one BMC.
type Client struct {
	base     string
	user     string
	password string
	hc       *http.Client
}

// Option adjusts the client configuration.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.hc.Timeout = d
	}
}

// New returns a client for the BMC at host.  A port of 0 selects 443.
func New(host, user, password string, port int, opts ...Option) *Client {
	if port == 0 {
		port = 443
	}
	c := &Client{
		base:     fmt.Sprintf("https://%s:%d", host, port),
		user:     user,
		password: password,
	}
	c.auth()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// auth builds a fresh session.  BMCs ship self-signed certificates,
// so verification is disabled.
func (c *Client) auth() {
	var timeout time.Duration = 90 * time.Second
	if c.hc != nil {
		timeout = c.hc.Timeout
	}
	c.hc = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
}

// Response carries the status and body of a Redfish reply.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the response status indicates success.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON decodes the response body.  An empty body decodes to nothing,
// matching the 204 replies common in Redfish.
func (r *Response) JSON(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	return json.Unmarshal(r.Body, v)
}

// timeoutResponse is the synthetic reply for requests that time out.
func timeoutResponse() *Response {
	body, _ := json.Marshal(map[string]any{
		"status":    "CLIENT_TIMEOUT",
		"code":      StatusClientTimeout,
		"error":     "ReadTimeout",
		"message":   "Client timed out while waiting for server response.",
		"retryable": true,
	})
	return &Response{StatusCode: StatusClientTimeout, Body: body}
}

// Get performs a GET request against the API.
func (c *Client) Get(path string) (*Response, error) {
	return c.do(http.MethodGet, path, nil, "")
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) (*Response, error) {
	payload, contentType, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPost, path, payload, contentType)
}

// Patch performs a PATCH request with a JSON body.
func (c *Client) Patch(path string, body any) (*Response, error) {
	payload, contentType, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPatch, path, payload, contentType)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(path string, body any) (*Response, error) {
	payload, contentType, err := jsonBody(body)
	if err != nil {
		return nil, err
	}
	return c.do(http.MethodPut, path, payload, contentType)
}

func jsonBody(body any) (payload []byte, contentType string, err error) {
	if body == nil {
		return nil, "", nil
	}
	payload, err = json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return payload, "application/json", nil
}

// do issues a request, re-authenticating once on 401.
func (c *Client) do(method, path string, payload []byte, contentType string) (*Response, error) {
	res, err := c.send(method, path, payload, contentType)
	if err != nil {
		return nil, err
	}
	if res.StatusCode == http.StatusUnauthorized {
		// Session timed out.  Need to re-authenticate.
		c.auth()
		return c.send(method, path, payload, contentType)
	}
	return res, nil
}

// send issues a request, retrying transient transport failures and
// server-side 408/500 replies with backoff.  Intermittent connection
// errors during the TLS handshake recover after a session refresh, so
// the session is rebuilt before each retry.
func (c *Client) send(method, path string, payload []byte, contentType string) (*Response, error) {
	var res *Response
	b := backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3)

	err := backoff.Retry(func() error {
		req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.SetBasicAuth(c.user, c.password)
		if contentType != "" {
			req.Header.Set("Content-Type", contentType)
		}

		httpRes, err := c.hc.Do(req)
		if err != nil {
			if isTimeout(err) {
				// Timeout waiting for a response.  Return the
				// synthetic response and move on.
				res = timeoutResponse()
				return nil
			}
			glog.Warningf("Redfish %s %s: %v", method, path, err)
			c.auth()
			return err
		}
		defer httpRes.Body.Close()

		body, err := io.ReadAll(httpRes.Body)
		if err != nil {
			return err
		}
		switch httpRes.StatusCode {
		case http.StatusRequestTimeout, http.StatusInternalServerError:
			return fmt.Errorf("%s %s: status %d", method, path, httpRes.StatusCode)
		}
		res = &Response{StatusCode: httpRes.StatusCode, Body: body}
		return nil
	}, b)

	if err != nil {
		return nil, err
	}
	return res, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return false
}

// successReply reports whether a reply indicates success: either a
// 204 or an extended info message with a success MessageId.
func successReply(res *Response) bool {
	if res.StatusCode == http.StatusNoContent {
		return true
	}
	var reply struct {
		Info []struct {
			MessageID string `json:"MessageId"`
		} `json:"@Message.ExtendedInfo"`
	}
	if err := res.JSON(&reply); err != nil {
		return false
	}
	for _, i := range reply.Info {
		if strings.Contains(strings.ToLower(i.MessageID), "success") {
			return true
		}
	}
	return false
}
