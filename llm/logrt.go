package llm

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"regexp"
	"time"
)

// loggingRT dumps outbound/inbound LLM traffic with secrets redacted.
// Enable by wrapping a client's HTTP transport.
type loggingRT struct{ base http.RoundTripper }

var secretRe = regexp.MustCompile(`(?i)(Authorization:\s*Bearer\s+|x-api-key:\s*)[A-Za-z0-9\-\._~+/=]+`)

// WrapTransport returns a transport that logs redacted request/response dumps.
func WrapTransport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &loggingRT{base: base}
}

// newHTTPClient builds the client used by providers, with wire dumps when
// LLM_DEBUG is set.
func newHTTPClient(timeout time.Duration) *http.Client {
	c := &http.Client{Timeout: timeout}
	if v := os.Getenv("LLM_DEBUG"); v == "1" || v == "true" {
		c.Transport = WrapTransport(nil)
	}
	return c
}

func (l *loggingRT) RoundTrip(req *http.Request) (*http.Response, error) {
	var reqDump []byte
	if req.Body != nil {
		b, _ := io.ReadAll(req.Body)
		req.Body = io.NopCloser(bytes.NewReader(b))
		req.GetBody = func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(b)), nil }
		d, _ := httputil.DumpRequestOut(req, true)
		reqDump = d
	}
	safe := secretRe.ReplaceAll(reqDump, []byte("${1}***REDACTED***"))
	if len(safe) > 0 {
		log.Printf("\n===== LLM OUTBOUND >>> %s %s =====\n%s\n===== END LLM OUTBOUND =====\n", req.Method, req.URL.String(), safe)
	}

	resp, err := l.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}

	if resp != nil && resp.Body != nil {
		b, _ := io.ReadAll(resp.Body)
		resp.Body = io.NopCloser(bytes.NewReader(b))
		d, _ := httputil.DumpResponse(resp, true)
		if len(d) > 4096 {
			d = append(d[:4096], []byte("\n... (truncated) ...")...)
		}
		log.Printf("\n===== LLM INBOUND  <<< %s %s =====\n%s\n===== END LLM INBOUND  =====\n", req.Method, req.URL.String(), d)
	}
	return resp, nil
}
