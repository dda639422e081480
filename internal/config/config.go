// Package config loads optional run-time defaults for the paracl CLI host
// from a .env file, grounded on the teacher's cmd/flowa/main.go
// loadEnvFile — replaced here with github.com/joho/godotenv, the teacher's
// own dependency for this exact concern, instead of the teacher's hand
// rolled scanner (see DESIGN.md).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults holds CLI defaults that may be supplied by environment variables,
// so a .env file can pin a project's trace/input behaviour without repeating
// flags on every invocation.
type Defaults struct {
	// Trace mirrors PARACL_TRACE: enable --trace by default.
	Trace bool
	// InputFile mirrors PARACL_INPUT: a file to read Input tokens from
	// instead of stdin.
	InputFile string
}

// Load reads a .env file at path (if present — its absence is not an error,
// matching the teacher's loadEnvFile) and returns the Defaults derived from
// the resulting environment.
func Load(path string) (Defaults, error) {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return Defaults{}, err
	}

	var d Defaults
	if v := os.Getenv("PARACL_TRACE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Defaults{}, err
		}
		d.Trace = b
	}
	d.InputFile = os.Getenv("PARACL_INPUT")
	return d, nil
}
