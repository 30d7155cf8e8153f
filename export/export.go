// Package export renders winner tables into file artifacts. The writers
// are pure: they take the ordered rows the caller built and own nothing
// but layout and encoding. Callers upload and then delete the returned
// file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"
)

// Row is one winner line of the exported table.
type Row struct {
	Serial      int
	DisplayName string
	ShortName   string
	Link        string
}

var header = []string{"S/N", "Discord Name", "X Username", "X Link"}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// tempPath builds a collision-free output path under the system temp
// directory.
func tempPath(raffle, ext string) string {
	name := unsafeChars.ReplaceAllString(raffle, "_")
	if name == "" {
		name = "raffle"
	}
	return filepath.Join(os.TempDir(),
		fmt.Sprintf("%s_winners_%s.%s", name, uuid.New().String()[:8], ext))
}

func title(raffle string) string {
	return fmt.Sprintf("Winners - %s (Space)", raffle)
}
