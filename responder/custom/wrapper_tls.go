package custom

// registerTLSClient installs the "http_tls" module: an HTTP client that
// presents a Chrome TLS fingerprint (utls HelloChrome_120), tries HTTP/2 first
// and falls back to HTTP/1.1.
//
// Lua API:
//
//	http_tls.get(url)              → body string
//	http_tls.get(url, headers_tbl) → body string
//	http_tls.request(options_tbl)  → {status, body, headers}
//
// request options: method, url, headers, body, cache (bool).

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bavarder-cli/bavarder/constant"
	"github.com/bavarder-cli/bavarder/internal/cache"
	utls "github.com/refraction-networking/utls"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/net/http2"
)

const httpTimeout = 60 * time.Second

func registerTLSClient(L *lua.LState) {
	mod := L.NewTable()
	L.SetField(mod, "get", L.NewFunction(httpTLSGet))
	L.SetField(mod, "request", L.NewFunction(httpTLSRequest))
	L.SetGlobal("http_tls", mod)
}

type tlsResponse struct {
	Status  int               `json:"status"`
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers"`
}

func (r tlsResponse) table(L *lua.LState) *lua.LTable {
	result := L.NewTable()
	L.SetField(result, "status", lua.LNumber(r.Status))
	L.SetField(result, "body", lua.LString(r.Body))

	headers := L.NewTable()
	for k, v := range r.Headers {
		L.SetField(headers, k, lua.LString(v))
	}
	L.SetField(result, "headers", headers)

	return result
}

func httpTLSGet(L *lua.LState) int {
	url := L.CheckString(1)
	headers := tableToHeaders(L.OptTable(2, nil))

	response, err := doTLSRequest(luaContext(L), http.MethodGet, url, headers, "")
	if err != nil {
		L.RaiseError("http_tls.get failed: %s", err.Error())
		return 0
	}

	L.Push(lua.LString(response.Body))
	return 1
}

func httpTLSRequest(L *lua.LState) int {
	opts := L.CheckTable(1)

	method := getStringField(opts, "method", http.MethodGet)
	url := getStringField(opts, "url", "")
	body := getStringField(opts, "body", "")
	shouldCache := lua.LVAsBool(opts.RawGetString("cache"))

	if url == "" {
		L.RaiseError("http_tls.request: url is required")
		return 0
	}

	headers := tableToHeaders(nil)
	if tbl, ok := opts.RawGetString("headers").(*lua.LTable); ok {
		headers = tableToHeaders(tbl)
	}

	var cacheKey string
	if shouldCache {
		cacheKey = cache.GenerateKey(url+body, method)

		var cached tlsResponse
		if cache.Read(cacheKey, &cached) {
			L.Push(cached.table(L))
			return 1
		}
	}

	response, err := doTLSRequest(luaContext(L), method, url, headers, body)
	if err != nil {
		L.RaiseError("http_tls.request failed: %s", err.Error())
		return 0
	}

	if shouldCache && response.Status == http.StatusOK {
		_ = cache.Write(cacheKey, response)
	}

	L.Push(response.table(L))
	return 1
}

func luaContext(L *lua.LState) context.Context {
	if ctx := L.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func tableToHeaders(tbl *lua.LTable) map[string]string {
	headers := make(map[string]string)
	if tbl == nil {
		return headers
	}

	tbl.ForEach(func(k, v lua.LValue) {
		headers[k.String()] = v.String()
	})
	return headers
}

func getStringField(tbl *lua.LTable, key string, def string) string {
	val := tbl.RawGetString(key)
	if val == lua.LNil {
		return def
	}
	return val.String()
}

var (
	h2Transport     *http2.Transport
	h2TransportOnce sync.Once
)

func getH2Transport() *http2.Transport {
	h2TransportOnce.Do(func() {
		h2Transport = &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		}
	})
	return h2Transport
}

var h1Transport = &http.Transport{
	DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
		return dialTLS(ctx, network, addr, []string{"http/1.1"})
	},
}

func newRequest(ctx context.Context, method, url string, headers map[string]string, body string) (*http.Request, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", constant.UserAgent)
	req.Header.Set("Accept", "application/json, text/plain;q=0.9, */*;q=0.8")

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req, nil
}

// doTLSRequest sends the request over HTTP/2 and retries it over HTTP/1.1 if that fails.
// Plain http:// URLs go through the default transport.
func doTLSRequest(ctx context.Context, method, url string, headers map[string]string, body string) (tlsResponse, error) {
	transports := []http.RoundTripper{getH2Transport(), h1Transport}
	if strings.HasPrefix(url, "http://") {
		transports = []http.RoundTripper{http.DefaultTransport}
	}

	var (
		resp *http.Response
		err  error
	)

	for _, transport := range transports {
		var req *http.Request
		req, err = newRequest(ctx, method, url, headers, body)
		if err != nil {
			return tlsResponse{}, err
		}

		client := &http.Client{Timeout: httpTimeout, Transport: transport}
		if resp, err = client.Do(req); err == nil {
			break
		}
	}

	if err != nil {
		return tlsResponse{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tlsResponse{}, fmt.Errorf("read body: %w", err)
	}

	response := tlsResponse{
		Status:  resp.StatusCode,
		Body:    string(data),
		Headers: make(map[string]string, len(resp.Header)),
	}
	for k := range resp.Header {
		response.Headers[k] = resp.Header.Get(k)
	}

	return response, nil
}

// dialTLS opens a TLS connection with Chrome's fingerprint, advertising protos when given.
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: httpTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
