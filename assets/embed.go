// assets/embed.go
//
// Embedded fallback word list, used when WORDS_FILE is not configured.
// One word per line; blank lines and lines starting with "#" are ignored
// by the lexicon loader's length/alphabet filter.

package assets

import (
	"embed"
	"io/fs"
)

//go:embed words.txt
var FS embed.FS

// WordList opens the embedded word list.
func WordList() (fs.File, error) {
	return FS.Open("words.txt")
}
