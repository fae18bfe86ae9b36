package main

import (
	"os"

	"github.com/barnettlynn/stegoform/internal/secureprompt"
	"github.com/barnettlynn/stegoform/internal/stegoerr"
)

// resolvePassword implements the three password sources from spec.md §6:
// --password literal, --pass-env <NAME> read verbatim from the
// environment, or an interactive terminal prompt as a last resort.
func resolvePassword(password, passEnv string, interactive bool, prompt string) ([]byte, error) {
	if password != "" {
		return []byte(password), nil
	}
	if passEnv != "" {
		v, ok := os.LookupEnv(passEnv)
		if !ok {
			return nil, stegoerr.Arg("environment variable %q is not set", passEnv)
		}
		return []byte(v), nil
	}
	if interactive {
		return secureprompt.Prompt(prompt)
	}
	return nil, nil
}
