// Package testserver provides in-process servers for use by tests: an SSH server that answers exec
// requests and serves the sftp subsystem, and a management API server answering canned responses.
package testserver

import (
	"io"
	"net"

	"github.com/pkg/sftp"
	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

// SSHServer represents a test SSH Server
type SSHServer struct {
	listener net.Listener
	cfg      *serverConfig
}

// Executor is implemented to answer exec requests.
type Executor interface {
	// Exec runs cmd, returning its standard output, standard error and exit status.
	Exec(cmd string) (stdout, stderr string, status uint32)
}

// ServerOption implements options for configuring server behaviour.
type ServerOption func(*serverConfig)

type serverConfig struct {
	executor     Executor
	requestTypes map[string]bool
}

// WithExecutor defines the executor used to answer exec requests.
// Defaults to a Shell operating on the local filesystem.
func WithExecutor(e Executor) ServerOption {
	return func(c *serverConfig) {
		c.executor = e
	}
}

// RequestTypes defines the channel request types the server will accept.
// Defaults to exec, subsystem, env and pty-req.
func RequestTypes(types []string) ServerOption {
	return func(c *serverConfig) {
		c.requestTypes = map[string]bool{}
		for _, t := range types {
			c.requestTypes[t] = true
		}
	}
}

// NewSSHServer delivers a new test SSH Server.
// The server implements password authentication with the given credentials.
func NewSSHServer(t assert.TestingT, uname, password string, opts ...ServerOption) *SSHServer {
	cfg := &serverConfig{
		executor:     NewShell(),
		requestTypes: map[string]bool{"exec": true, "subsystem": true, "env": true, "pty-req": true},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	sshcfg, err := PasswordConfig(uname, password)
	assert.NoError(t, err, "Failed to create server config")

	listener, err := net.Listen("tcp", "localhost:0")
	assert.NoError(t, err, "Listen failed")

	server := &SSHServer{listener: listener, cfg: cfg}
	go server.acceptConnections(sshcfg)
	return server
}

// Port delivers the tcp port number on which the server is listening.
func (s *SSHServer) Port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

// Close closes any resources used by the server.
func (s *SSHServer) Close() {
	_ = s.listener.Close()
}

func (s *SSHServer) acceptConnections(config *ssh.ServerConfig) {
	for {
		nConn, err := s.listener.Accept()
		if err != nil {
			return
		}
		go s.handleConnection(nConn, config)
	}
}

func (s *SSHServer) handleConnection(nConn net.Conn, config *ssh.ServerConfig) {
	_, chch, reqch, err := ssh.NewServerConn(nConn, config)
	if err != nil {
		_ = nConn.Close()
		return
	}

	go ssh.DiscardRequests(reqch)

	// Service the incoming Channel channel.
	for newChannel := range chch {
		if newChannel.ChannelType() != "session" {
			_ = newChannel.Reject(ssh.UnknownChannelType, "unsupported channel type")
			continue
		}
		ch, requests, err := newChannel.Accept()
		if err != nil {
			continue
		}
		go s.handleSession(ch, requests)
	}
}

func (s *SSHServer) handleSession(ch ssh.Channel, in <-chan *ssh.Request) {
	defer ch.Close()
	for req := range in {
		if !s.cfg.requestTypes[req.Type] {
			_ = req.Reply(false, nil)
			continue
		}

		switch req.Type {
		case "exec":
			var payload struct{ Command string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go ssh.DiscardRequests(in)
			s.exec(ch, payload.Command)
			return
		case "subsystem":
			var payload struct{ Name string }
			if err := ssh.Unmarshal(req.Payload, &payload); err != nil || payload.Name != "sftp" {
				_ = req.Reply(false, nil)
				continue
			}
			_ = req.Reply(true, nil)
			go ssh.DiscardRequests(in)
			serveSFTP(ch)
			return
		default:
			_ = req.Reply(true, nil)
		}
	}
}

func (s *SSHServer) exec(ch ssh.Channel, cmd string) {
	stdout, stderr, status := s.cfg.executor.Exec(cmd)
	_, _ = io.WriteString(ch, stdout)
	_, _ = io.WriteString(ch.Stderr(), stderr)
	_, _ = ch.SendRequest("exit-status", false, ssh.Marshal(struct{ Status uint32 }{status}))
}

func serveSFTP(ch ssh.Channel) {
	server, err := sftp.NewServer(ch)
	if err != nil {
		return
	}
	_ = server.Serve()
	_ = server.Close()
}
