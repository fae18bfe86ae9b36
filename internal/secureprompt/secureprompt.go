// Package secureprompt reads a password from the controlling terminal
// without echoing it, following the teacher's golang.org/x/term raw-mode
// usage in keyswap/main.go and permissionsedit/main.go (there used for
// MakeRaw/Restore around a selection menu; here for the sibling
// term.ReadPassword).
package secureprompt

import (
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// Prompt writes prompt to stderr and reads a password from stdin with echo
// disabled. It fails with an ArgError if stdin is not a terminal, since
// there is then no safe way to read a secret interactively.
func Prompt(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return nil, stegoerr.Arg("no password source; use --password or --pass-env (stdin is not a terminal)")
	}

	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, stegoerr.IOWrap(err, "read password from terminal")
	}
	return pw, nil
}
