package sshclient

import (
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/ssh"
)

// shell is a persistent interactive session.  Commands sent to it run
// sequentially in the same remote shell, unlike Run which gets a
// fresh shell per command.
type shell struct {
	sess *ssh.Session
	in   io.WriteCloser
	out  chan []byte
	quit chan struct{}
	done bool
}

func newShell(sc *ssh.Client) (*shell, error) {
	sess, err := sc.NewSession()
	if err != nil {
		return nil, fmt.Errorf("could not create session: %w", err)
	}
	// A pty merges stderr into stdout, which reads more naturally
	// for interactive use.
	if err := sess.RequestPty("xterm", 40, 80, ssh.TerminalModes{}); err != nil {
		sess.Close()
		return nil, fmt.Errorf("could not request pty: %w", err)
	}
	in, err := sess.StdinPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}
	stdout, err := sess.StdoutPipe()
	if err != nil {
		sess.Close()
		return nil, err
	}
	if err := sess.Shell(); err != nil {
		sess.Close()
		return nil, fmt.Errorf("could not start shell: %w", err)
	}

	sh := &shell{
		sess: sess,
		in:   in,
		out:  make(chan []byte, 16),
		quit: make(chan struct{}),
	}
	go sh.readLoop(stdout)
	return sh, nil
}

// readLoop pumps stdout chunks to out until the stream ends or the
// shell is closed.
func (sh *shell) readLoop(r io.Reader) {
	defer close(sh.out)
	buf := make([]byte, 1024)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			// The send must not outlive close: with no RecvAll
			// consumer the buffer fills and the send would block
			// forever.
			select {
			case sh.out <- chunk:
			case <-sh.quit:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func (sh *shell) close() {
	sh.done = true
	close(sh.quit)
	sh.in.Close()
	sh.sess.Close()
}

// Send writes data to the interactive shell, opening it on first use.
// Newline (enter) characters are not appended and must be handled by
// the caller.
func (c *Client) Send(s string) error {
	if c.shell == nil || c.shell.done {
		sh, err := newShell(c.ssh)
		if err != nil {
			return err
		}
		c.shell = sh
	}
	_, err := c.shell.in.Write([]byte(s))
	return err
}

// RecvAll reads interactive shell output until no more data arrives
// for a few consecutive intervals, or until the timeout elapses.
// Useful when the output length is unknown or intermittent.
func (c *Client) RecvAll(timeout, interval time.Duration) string {
	if c.shell == nil {
		return ""
	}

	var all []byte
	deadline := time.After(timeout)
	// Number of consecutive empty intervals that indicate we have
	// received everything.
	retries := 3
	for retries > 0 {
		select {
		case chunk, ok := <-c.shell.out:
			if !ok {
				c.shell.done = true
				return string(all)
			}
			all = append(all, chunk...)
			retries = 3
		case <-time.After(interval):
			retries--
		case <-deadline:
			return string(all)
		}
	}
	return string(all)
}
