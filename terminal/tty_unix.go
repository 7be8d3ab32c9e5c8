//go:build unix

package terminal

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Tty owns the process tty: raw mode, size queries, SIGWINCH watching and
// the chunked stdin reader. Output goes through Backend; Tty only hands it
// the underlying stream.
type Tty struct {
	in    *os.File
	out   *os.File
	inFd  int
	outFd int
	saved *term.State

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewTty binds stdin/stdout.
func NewTty() *Tty {
	return &Tty{
		in:     os.Stdin,
		out:    os.Stdout,
		inFd:   int(os.Stdin.Fd()),
		outFd:  int(os.Stdout.Fd()),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Output returns the stream the Backend should write to.
func (t *Tty) Output() *os.File {
	return t.out
}

// Raw enters raw mode.
func (t *Tty) Raw() error {
	if !term.IsTerminal(t.inFd) {
		return fmt.Errorf("stdin is not a terminal")
	}
	saved, err := term.MakeRaw(t.inFd)
	if err != nil {
		return fmt.Errorf("enter raw mode: %w", err)
	}
	t.saved = saved
	return nil
}

// Release restores the saved termios and stops the background readers. Safe
// to call on every exit path.
func (t *Tty) Release() {
	select {
	case <-t.stopCh:
	default:
		close(t.stopCh)
	}
	if t.saved != nil {
		term.Restore(t.inFd, t.saved)
		t.saved = nil
	}
}

// Size queries the current terminal dimensions.
func (t *Tty) Size() (width, height int) {
	ws, err := unix.IoctlGetWinsize(t.outFd, unix.TIOCGWINSZ)
	if err != nil {
		return 80, 24
	}
	return int(ws.Col), int(ws.Row)
}

// WatchResize posts the new size on every SIGWINCH until Release.
func (t *Tty) WatchResize(post func(width, height int)) {
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGWINCH)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-t.stopCh:
				return
			case <-sigCh:
				w, h := t.Size()
				post(w, h)
			}
		}
	}()
}

// ReadChunks reads stdin in a goroutine and delivers raw chunks on the
// returned channel. The channel closes on EOF, read error or Release.
// Reads poll with a timeout so shutdown never blocks on a stuck read.
func (t *Tty) ReadChunks() <-chan []byte {
	chunks := make(chan []byte, 8)

	go func() {
		defer close(chunks)
		defer close(t.doneCh)
		buf := make([]byte, 256)

		for {
			select {
			case <-t.stopCh:
				return
			default:
			}

			fds := []unix.PollFd{{Fd: int32(t.inFd), Events: unix.POLLIN}}
			n, err := unix.Poll(fds, 100)
			if err != nil {
				if err == unix.EINTR {
					continue
				}
				return
			}
			if n == 0 {
				continue // poll timeout, re-check stop
			}

			rn, err := unix.Read(t.inFd, buf)
			if err != nil {
				if err == unix.EINTR || err == unix.EAGAIN {
					continue
				}
				return
			}
			if rn == 0 {
				return // EOF
			}

			chunk := make([]byte, rn)
			copy(chunk, buf[:rn])

			select {
			case chunks <- chunk:
			case <-t.stopCh:
				return
			}
		}
	}()

	return chunks
}
