package remote

import (
	"bytes"
	"context"
	"io"
	"net"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

//go:generate mockgen -destination=mocks/mock_transport.go -package=mocks github.com/damianoneill/nsotest/remote Transport,FileChannel

// Transport defines the operations the session needs from the remote server.
type Transport interface {
	// Run executes cmd in a new remote shell and returns its standard output.
	Run(cmd string) (string, error)
	// OpenFileChannel opens a file transfer sub-channel on the connection.
	OpenFileChannel() (FileChannel, error)
	io.Closer
}

// FileChannel is a file transfer sub-channel, opened and closed per transfer.
type FileChannel interface {
	// Open opens the remote file for reading.
	Open(path string) (io.ReadCloser, error)
	io.Closer
}

// DialFunc establishes a Transport to the target.
type DialFunc func(ctx context.Context, sshcfg *ssh.ClientConfig, target string) (Transport, error)

type sshTransport struct {
	client *ssh.Client
}

// NewSSHTransport connects to the target using the ssh configuration.
// Errors are returned with the message of the underlying cause.
func NewSSHTransport(ctx context.Context, sshcfg *ssh.ClientConfig, target string) (Transport, error) {
	d := net.Dialer{Timeout: sshcfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", target)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	c, chans, reqs, err := ssh.NewClientConn(conn, target, sshcfg)
	if err != nil {
		_ = conn.Close()
		return nil, errors.WithStack(err)
	}
	return &sshTransport{client: ssh.NewClient(c, chans, reqs)}, nil
}

func (t *sshTransport) Run(cmd string) (string, error) {
	session, err := t.client.NewSession()
	if err != nil {
		return "", errors.Wrap(err, "new ssh session failed")
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err = session.Run(cmd); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), errors.Wrap(err, msg)
		}
		return stdout.String(), errors.WithStack(err)
	}
	return stdout.String(), nil
}

func (t *sshTransport) OpenFileChannel() (FileChannel, error) {
	c, err := sftp.NewClient(t.client)
	if err != nil {
		return nil, errors.Wrap(err, "sftp client creation failed")
	}
	return &sftpChannel{client: c}, nil
}

func (t *sshTransport) Close() error {
	return t.client.Close()
}

type sftpChannel struct {
	client *sftp.Client
}

func (c *sftpChannel) Open(path string) (io.ReadCloser, error) {
	f, err := c.client.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open remote file %s", path)
	}
	return f, nil
}

func (c *sftpChannel) Close() error {
	return c.client.Close()
}

// closeAll closes each closer, returning the combined errors.
func closeAll(closers ...io.Closer) error {
	var result *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
