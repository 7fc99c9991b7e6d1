package remote

import (
	"bufio"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/damianoneill/nsotest/envelope"

	"github.com/hashicorp/go-multierror"
)

// Session defines the file operations available on an established connection to a remote server.
// A Session is not safe for concurrent use; use one session per caller.
type Session interface {
	// ListFiles returns the names listed in the remote directory, in listing order.
	ListFiles(path string) ([]string, error)

	// DeleteFile removes path/name and confirms it no longer appears in the listing of path.
	DeleteFile(path, name string) error

	// TransferFile downloads remotePath/name into the results directory, prefixing the local
	// name with "label-" when label is not empty. It returns the local path written.
	TransferFile(remotePath, name, label string) (string, error)

	// FetchNamedFiles transfers each of names that is present in the listing of path.
	// Names absent from the listing are skipped. It returns the local paths written.
	FetchNamedFiles(names []string, path, label string) ([]string, error)

	// ResultsDir delivers the local directory that transferred files are written to.
	ResultsDir() string

	// SetResultsDir changes the local directory used by subsequent transfers.
	SetResultsDir(dir string)

	io.Closer
}

type sessionImpl struct {
	cfg    *SessionConfig
	t      Transport
	trace  *SessionTrace
	target string
	closed bool
}

// Commands are issued without quoting or escaping of path or name.
func listCommand(path string) string {
	return "cd " + path + " && ls"
}

func removeCommand(path, name string) string {
	return "rm -rf " + path + name
}

func withTrailingSlash(path string) string {
	if strings.HasSuffix(path, "/") {
		return path
	}
	return path + "/"
}

// localName delivers the results path for a transferred file.
func localName(dir, name, label string) string {
	if label != "" {
		name = label + "-" + name
	}
	return filepath.Join(dir, name)
}

// splitListing splits ls output into names, trimming trailing whitespace from each.
func splitListing(output string) []string {
	names := []string{}
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		names = append(names, strings.TrimRightFunc(scanner.Text(), unicode.IsSpace))
	}
	return names
}

func (s *sessionImpl) run(cmd string) (output string, err error) {
	if s.closed {
		return "", envelope.NewError(envelope.NotConnectedError, "session is closed")
	}
	s.trace.CommandStart(s.target, cmd)
	defer func(begin time.Time) {
		s.trace.CommandDone(s.target, cmd, output, err, time.Since(begin))
	}(time.Now())
	return s.t.Run(cmd)
}

func (s *sessionImpl) ListFiles(path string) ([]string, error) {
	if path == "" {
		return nil, envelope.NewError(envelope.CommandError, "failed to list files: empty path")
	}
	cmd := listCommand(path)
	output, err := s.run(cmd)
	if err != nil {
		if envelope.IsKind(err, envelope.NotConnectedError) {
			return nil, err
		}
		s.trace.Error("ListFiles", s.target, err)
		return nil, envelope.WrapError(envelope.CommandError, err, "failed to execute command via ssh client: "+cmd)
	}
	return splitListing(output), nil
}

func (s *sessionImpl) DeleteFile(path, name string) error {
	if path == "" {
		return envelope.NewError(envelope.CommandError, "failed to remove file from server: empty path")
	}
	path = withTrailingSlash(path)

	if _, err := s.run(removeCommand(path, name)); err != nil {
		if envelope.IsKind(err, envelope.NotConnectedError) {
			return err
		}
		s.trace.Error("DeleteFile", s.target, err)
		return envelope.WrapError(envelope.CommandError, err, "failed to remove file from server: "+path+name)
	}

	names, err := s.ListFiles(path)
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			err = envelope.NewError(envelope.VerificationError, "failed to delete file: "+name)
			s.trace.Error("DeleteFile", s.target, err)
			return err
		}
	}
	return nil
}

func (s *sessionImpl) TransferFile(remotePath, name, label string) (local string, err error) {
	if s.closed {
		return "", envelope.NewError(envelope.NotConnectedError, "session is closed")
	}
	if remotePath == "" {
		return "", envelope.NewError(envelope.TransferError, "failed to transfer file: "+name+" empty remote path")
	}
	src := withTrailingSlash(remotePath) + name
	dst := localName(s.cfg.ResultsDir, name, label)

	var written int64
	s.trace.TransferStart(src, dst)
	defer func(begin time.Time) {
		s.trace.TransferDone(src, dst, written, err, time.Since(begin))
		if err != nil {
			s.trace.Error("TransferFile", s.target, err)
		}
	}(time.Now())

	fc, err := s.t.OpenFileChannel()
	if err != nil {
		return "", envelope.WrapError(envelope.TransferError, err, "failed to transfer file: "+name)
	}
	// The sub-channel is released on every path.
	defer func() {
		if cerr := fc.Close(); cerr != nil && err == nil {
			err = envelope.WrapError(envelope.TransferError, cerr, "failed to transfer file: "+name)
			local = ""
		}
	}()

	if written, err = s.download(fc, src, dst); err != nil {
		return "", envelope.WrapError(envelope.TransferError, err, "failed to transfer file: "+name)
	}
	return dst, nil
}

func (s *sessionImpl) download(fc FileChannel, src, dst string) (int64, error) {
	rf, err := fc.Open(src)
	if err != nil {
		return 0, err
	}
	if err = s.cfg.Fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		_ = rf.Close()
		return 0, err
	}
	lf, err := s.cfg.Fs.Create(dst)
	if err != nil {
		_ = rf.Close()
		return 0, err
	}

	n, err := io.Copy(lf, rf)
	if cerr := closeAll(rf, lf); err == nil {
		err = cerr
	}
	if err != nil {
		_ = s.cfg.Fs.Remove(dst)
		return n, err
	}
	return n, nil
}

func (s *sessionImpl) FetchNamedFiles(names []string, path, label string) ([]string, error) {
	listed, err := s.ListFiles(path)
	if err != nil {
		return nil, err
	}
	present := make(map[string]bool, len(listed))
	for _, n := range listed {
		present[n] = true
	}

	locals := []string{}
	var result *multierror.Error
	for _, name := range names {
		if !present[name] {
			continue
		}
		local, err := s.TransferFile(path, name, label)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		locals = append(locals, local)
	}
	return locals, result.ErrorOrNil()
}

func (s *sessionImpl) ResultsDir() string {
	return s.cfg.ResultsDir
}

func (s *sessionImpl) SetResultsDir(dir string) {
	s.cfg.ResultsDir = dir
}

func (s *sessionImpl) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.t.Close()
	s.trace.ConnectionClosed(s.target, err)
	return err
}
