package rewrite

import (
	"strings"

	"github.com/tune-labs/coverfix/pkg/tracks"
)

// CoverFilename replaces whatever file the original path referenced.
const CoverFilename = "Cover.jpg"

// Rule rewrites a relative coverArt path into an absolute URL under BaseURL,
// normalizing the filename to CoverFilename.
type Rule struct {
	BaseURL string
}

// Apply rewrites the track's coverArt field when it is eligible: present,
// a string, and starting with "/". It reports whether the record changed.
// Records are independent; Apply never reads or writes any other record.
func (r Rule) Apply(track *tracks.Track) (bool, error) {
	art, ok := track.CoverArt()
	if !ok || !strings.HasPrefix(art, "/") {
		return false, nil
	}

	relative := strings.TrimPrefix(art, "/")

	// Directory half of the path; empty when there is no separator left.
	directory := ""
	if i := strings.LastIndex(relative, "/"); i >= 0 {
		directory = relative[:i]
	}

	segments := strings.Split(directory+"/"+CoverFilename, "/")
	for i, segment := range segments {
		segments[i] = escapeSegment(segment)
	}

	url := r.BaseURL + "/" + strings.Join(segments, "/")
	if err := track.SetCoverArt(url); err != nil {
		return false, err
	}
	return true, nil
}

const upperhex = "0123456789ABCDEF"

// escapeSegment percent-encodes one path segment: every byte outside the
// unreserved set A-Za-z0-9_.-~ becomes %XX over its UTF-8 encoding. The "/"
// separators never reach here, so they are never encoded.
func escapeSegment(segment string) string {
	var b strings.Builder
	for i := 0; i < len(segment); i++ {
		c := segment[i]
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
			b.WriteByte(c)
		case c == '_' || c == '.' || c == '-' || c == '~':
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(upperhex[c>>4])
			b.WriteByte(upperhex[c&0xF])
		}
	}
	return b.String()
}
