//go:build !windows

package argh

import "os"

// reopenStdin reattaches os.Stdin to the controlling terminal after piped
// input has been drained, so the program can still prompt interactively.
func reopenStdin() error {
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return err
	}
	os.Stdin = tty
	return nil
}
