// Package sshclient wraps the SSH client for common remote-execution
// use: one-shot commands, sequential commands in an interactive
// shell, and file transfer.
package sshclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// Config describes an SSH endpoint and its credentials.  Either
// Password or KeyFile must be set.
type Config struct {
	Addr     string
	Port     int
	User     string
	Password string
	KeyFile  string
	// SkipVerify disables host key checking.  Lab machines are
	// reimaged constantly, so this is commonly wanted.
	SkipVerify bool
}

func (c Config) target() string {
	port := c.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(c.Addr, fmt.Sprint(port))
}

var knownHostsFiles = []string{
	"$HOME/.ssh/known_hosts",
	"/etc/ssh/ssh_known_hosts",
}

// knownHostsCallback checks the user and system SSH known_hosts.
func knownHostsCallback() (ssh.HostKeyCallback, error) {
	var files []string
	for _, file := range knownHostsFiles {
		file = os.ExpandEnv(file)
		if _, err := os.Stat(file); err == nil {
			files = append(files, file)
		}
	}
	return knownhosts.New(files...)
}

func (c Config) clientConfig() (*ssh.ClientConfig, error) {
	cc := &ssh.ClientConfig{User: c.User}

	switch {
	case c.KeyFile != "":
		key, err := os.ReadFile(c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("could not read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("could not parse key file: %w", err)
		}
		cc.Auth = []ssh.AuthMethod{ssh.PublicKeys(signer)}
	case c.Password != "":
		cc.Auth = []ssh.AuthMethod{ssh.Password(c.Password)}
	default:
		return nil, fmt.Errorf("no password or key file for %s", c.Addr)
	}

	if c.SkipVerify {
		cc.HostKeyCallback = ssh.InsecureIgnoreHostKey()
	} else {
		cb, err := knownHostsCallback()
		if err != nil {
			return nil, err
		}
		cc.HostKeyCallback = cb
	}
	return cc, nil
}

// Client is an SSH connection to one host.
type Client struct {
	cfg   Config
	ssh   *ssh.Client
	shell *shell
}

// Dial connects to the configured host.
func Dial(cfg Config) (*Client, error) {
	cc, err := cfg.clientConfig()
	if err != nil {
		return nil, err
	}
	sc, err := ssh.Dial("tcp", cfg.target(), cc)
	if err != nil {
		return nil, fmt.Errorf("could not dial %s: %w", cfg.target(), err)
	}
	return &Client{cfg: cfg, ssh: sc}, nil
}

// Run executes a command in a fresh session and returns its combined
// output.  A non-nil error still carries any output produced, so
// callers can report what the remote end printed.
func (c *Client) Run(_ context.Context, cmd string) (string, error) {
	sess, err := c.ssh.NewSession()
	if err != nil {
		return "", fmt.Errorf("could not create session: %w", err)
	}
	defer sess.Close()
	buf, err := sess.CombinedOutput(cmd)
	if err != nil {
		return string(buf), fmt.Errorf("could not execute command: %w", err)
	}
	return string(buf), nil
}

// Put copies a local file to the remote file system.
func (c *Client) Put(local, remote string) error {
	sc, err := sftp.NewClient(c.ssh)
	if err != nil {
		return fmt.Errorf("could not open sftp: %w", err)
	}
	defer sc.Close()

	src, err := os.Open(local)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := sc.Create(remote)
	if err != nil {
		return fmt.Errorf("could not create remote file: %w", err)
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Get copies a remote file to the local file system.
func (c *Client) Get(remote, local string) error {
	sc, err := sftp.NewClient(c.ssh)
	if err != nil {
		return fmt.Errorf("could not open sftp: %w", err)
	}
	defer sc.Close()

	src, err := sc.Open(remote)
	if err != nil {
		return fmt.Errorf("could not open remote file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(local)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// Close terminates the connection and any open interactive shell.
func (c *Client) Close() error {
	if c.shell != nil {
		c.shell.close()
		c.shell = nil
	}
	return c.ssh.Close()
}

// WaitReachable blocks until a TCP connection to the address succeeds
// or the timeout elapses, backing off between probes.  Useful for
// waiting out reboots.
func WaitReachable(addr string, port int, timeout time.Duration) error {
	target := net.JoinHostPort(addr, fmt.Sprint(port))

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = timeout
	return backoff.Retry(func() error {
		conn, err := net.DialTimeout("tcp", target, 3*time.Second)
		if err != nil {
			return err
		}
		conn.Close()
		return nil
	}, b)
}
