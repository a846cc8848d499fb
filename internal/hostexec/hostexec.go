// Package hostexec runs commands on the local host and wraps
// functions with retry, failsafe, and instrumentation behavior.
package hostexec

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"time"

	"github.com/golang/glog"
)

// Run executes args through the shell and returns the combined
// stdout and stderr with the exit code.  The streams are merged
// because some applications mix them anyway, and the shell gives
// access to pipes, wildcards, and variable expansion.
func Run(args string) (string, int) {
	return run("/bin/sh", args)
}

func run(shell, args string) (string, int) {
	cmd := exec.Command(shell, "-c", args)
	out, err := cmd.CombinedOutput()
	code := 0
	if err != nil {
		// ProcessState is nil when the shell itself failed to start.
		code = -1
		if cmd.ProcessState != nil && cmd.ProcessState.ExitCode() != 0 {
			code = cmd.ProcessState.ExitCode()
		}
	}
	return string(out), code
}

// IsReachable reports whether a TCP connection to host:port succeeds
// within the timeout.  A generous timeout avoids false negatives from
// network latency; port 22 is the usual probe for hosts with SSH.
func IsReachable(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Retry calls fn up to n times, sleeping interval between attempts.
// The returned error wraps the last failure with attempt context.
func Retry[T any](n int, interval time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var last error
	for attempt := 0; attempt < n; attempt++ {
		v, err := fn()
		if err == nil {
			return v, nil
		}
		last = err
		if attempt < n-1 {
			time.Sleep(interval)
		}
	}
	return zero, fmt.Errorf("retry failed after %d attempts: %w", n, last)
}

// Failsafe calls fn and logs the error instead of returning it.
func Failsafe(fn func() error) {
	if err := fn(); err != nil {
		glog.Warning(err)
	}
}

// Instrument calls fn and logs its arguments, duration, result, and
// error.  Search for "Hello blackbox" in the logs.
func Instrument[T any](name string, fn func() (T, error), args ...any) (T, error) {
	start := time.Now()
	v, err := fn()
	dur := time.Since(start).Round(100 * time.Microsecond)

	glog.Infof("Hello blackbox from %s", name)
	glog.Infof("args: %v", args)
	glog.Infof("duration: %s", dur)
	if err != nil {
		glog.Errorf("EXCEPTION: %v", err)
		return v, fmt.Errorf("%s: %w", name, err)
	}
	glog.Infof("return %T: %v", v, v)
	return v, nil
}
