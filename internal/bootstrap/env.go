package bootstrap

import (
	"errors"
	"io/fs"
	"log"

	"github.com/joho/godotenv"
)

// Loadenv loads the given dotenv files (".env" when none are passed).
// Variables already present in the environment win over file values.
func Loadenv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		switch {
		case err == nil:
			log.Printf("Loaded environment from %s", f)
		case errors.Is(err, fs.ErrNotExist):
			log.Printf("No %s file found, using system environment variables", f)
		default:
			log.Printf("Failed to parse %s: %v", f, err)
		}
	}
}
