package library

import (
	"os"
)

// Touch creates the file at path if it does not exist yet.
func Touch(path string) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		LogCLI(err.Error(), 0)
	}
	f.Close()
}

func Bye() string {
	return "The registrar has shut down. Pending identities are on disk, see you next time."
}
