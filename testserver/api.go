package testserver

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// APIRoot is the path prefix of the management API.
const APIRoot = "/api"

// APIRequest records a request received by the APIServer.
type APIRequest struct {
	Method      string
	Path        string
	Accept      string
	ContentType string
	RequestID   string
	Body        string
}

type apiResponse struct {
	status int
	body   string
}

// APIServer represents a test management API server.
// Requests for paths without a response are answered with 404.
type APIServer struct {
	server    *httptest.Server
	uname     string
	password  string
	mu        sync.Mutex
	responses map[string]apiResponse
	requests  []APIRequest
}

// NewAPIServer delivers a new test management API server.
// The server implements basic authentication with the given credentials.
func NewAPIServer(uname, password string) *APIServer {
	s := &APIServer{uname: uname, password: password, responses: map[string]apiResponse{}}
	s.server = httptest.NewServer(http.HandlerFunc(s.serveHTTP))
	return s
}

// Respond defines the response to requests of method for path, relative to APIRoot.
func (s *APIServer) Respond(method, path string, status int, body string) *APIServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[method+" "+path] = apiResponse{status: status, body: body}
	return s
}

// Requests delivers the requests received so far.
func (s *APIServer) Requests() []APIRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]APIRequest{}, s.requests...)
}

// LastRequest delivers the most recent request, or the zero value if there has been none.
func (s *APIServer) LastRequest() APIRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return APIRequest{}
	}
	return s.requests[len(s.requests)-1]
}

// Host delivers the host address on which the server is listening.
func (s *APIServer) Host() string {
	host, _, _ := net.SplitHostPort(s.server.Listener.Addr().String())
	return host
}

// Port delivers the tcp port number on which the server is listening.
func (s *APIServer) Port() int {
	return s.server.Listener.Addr().(*net.TCPAddr).Port
}

// Close closes any resources used by the server.
func (s *APIServer) Close() {
	s.server.Close()
}

func (s *APIServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	path := strings.TrimPrefix(r.URL.Path, APIRoot)

	s.mu.Lock()
	s.requests = append(s.requests, APIRequest{
		Method:      r.Method,
		Path:        path,
		Accept:      r.Header.Get("Accept"),
		ContentType: r.Header.Get("Content-Type"),
		RequestID:   r.Header.Get("X-Request-Id"),
		Body:        string(body),
	})
	resp, ok := s.responses[r.Method+" "+path]
	s.mu.Unlock()

	if u, p, _ := r.BasicAuth(); u != s.uname || p != s.password {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if !ok || !strings.HasPrefix(r.URL.Path, APIRoot) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
