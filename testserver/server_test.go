package testserver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/sftp"
	assert "github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func dial(ts *SSHServer, pass string) (*ssh.Client, error) {
	sshConfig := &ssh.ClientConfig{
		User:            TestUserName,
		Auth:            []ssh.AuthMethod{ssh.Password(pass)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint: gosec
	}
	return ssh.Dial("tcp", fmt.Sprintf("localhost:%d", ts.Port()), sshConfig)
}

func TestServerExec(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "a.log"), []byte("A"), 0o600))

	sh := NewShell()
	ts := NewSSHServer(t, TestUserName, TestPassword, WithExecutor(sh))
	defer ts.Close()

	client, err := dial(ts, TestPassword)
	assert.NoError(t, err)
	defer client.Close()

	session, err := client.NewSession()
	assert.NoError(t, err)
	defer session.Close()

	out, err := session.Output("cd " + dir + " && ls")
	assert.NoError(t, err)
	assert.Equal(t, "a.log\n", string(out))
	assert.Equal(t, []string{"cd " + dir + " && ls"}, sh.Commands())
}

func TestServerExecFailureStatus(t *testing.T) {
	ts := NewSSHServer(t, TestUserName, TestPassword)
	defer ts.Close()

	client, err := dial(ts, TestPassword)
	assert.NoError(t, err)
	defer client.Close()

	session, err := client.NewSession()
	assert.NoError(t, err)
	defer session.Close()

	err = session.Run("reboot")
	assert.Error(t, err)
	exitErr, ok := err.(*ssh.ExitError)
	assert.True(t, ok, "Expecting an exit error")
	assert.Equal(t, 127, exitErr.ExitStatus())
}

func TestServerSFTP(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "ncs.log"), []byte("content"), 0o600))

	ts := NewSSHServer(t, TestUserName, TestPassword)
	defer ts.Close()

	client, err := dial(ts, TestPassword)
	assert.NoError(t, err)
	defer client.Close()

	sc, err := sftp.NewClient(client)
	assert.NoError(t, err)
	defer sc.Close()

	f, err := sc.Open(filepath.Join(dir, "ncs.log"))
	assert.NoError(t, err)
	defer f.Close()
	b, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "content", string(b))
}

func TestServerSubsystemRejected(t *testing.T) {
	ts := NewSSHServer(t, TestUserName, TestPassword, RequestTypes([]string{"exec"}))
	defer ts.Close()

	client, err := dial(ts, TestPassword)
	assert.NoError(t, err)
	defer client.Close()

	_, err = sftp.NewClient(client)
	assert.Error(t, err)
}

func TestServerAuthenticationFailure(t *testing.T) {
	ts := NewSSHServer(t, TestUserName, TestPassword)
	defer ts.Close()

	_, err := dial(ts, "WrongPassword")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unable to authenticate")
}
