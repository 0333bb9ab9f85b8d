// Package langdetect wraps trigram-based language detection. It never talks
// to the network; low-confidence guesses degrade to "unknown" so the
// pipeline skips translation instead of mistranslating.
package langdetect

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

const minConfidence = 0.5

type Detector struct{}

func New() *Detector {
	return &Detector{}
}

// Detect returns the ISO 639-1 code of the dominant language, or "unknown".
func (d *Detector) Detect(text string) string {
	if strings.TrimSpace(text) == "" {
		return "unknown"
	}

	info := whatlanggo.Detect(text)
	if info.Lang == -1 || info.Confidence < minConfidence {
		return "unknown"
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return "unknown"
	}
	return code
}
