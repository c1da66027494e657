//go:build windows

package argh

// reopenStdin is a no-op on Windows; the console handle cannot be reopened
// the way /dev/tty can, so stdin stays at EOF after piped input is drained.
func reopenStdin() error {
	return nil
}
