package sshclient

import (
	"strings"
	"testing"
	"time"
)

func TestReadLoop_CloseUnblocks(t *testing.T) {
	sh := &shell{out: make(chan []byte, 16), quit: make(chan struct{})}
	done := make(chan struct{})
	go func() {
		// More input than the channel buffer holds, with nothing
		// consuming it.
		sh.readLoop(strings.NewReader(strings.Repeat("x", 64*1024)))
		close(done)
	}()

	for len(sh.out) < cap(sh.out) {
		time.Sleep(time.Millisecond)
	}
	close(sh.quit)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("reader goroutine still blocked after close")
	}
}

func TestReadLoop_EOFClosesOut(t *testing.T) {
	sh := &shell{out: make(chan []byte, 16), quit: make(chan struct{})}
	go sh.readLoop(strings.NewReader("prompt$ "))

	var all []byte
	for chunk := range sh.out {
		all = append(all, chunk...)
	}
	if got, want := string(all), "prompt$ "; got != want {
		t.Errorf("readLoop output got %q, want %q", got, want)
	}
}
