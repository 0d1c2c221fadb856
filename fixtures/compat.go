package fixtures

import (
	"strings"

	"github.com/flanksource/wordpaste/markup"
	"github.com/flanksource/wordpaste/paste"
)

// SelfEncodingBrowsers encode whitespace as &nbsp; on their own when they capture a paste,
// fixtures recorded in them are left untouched.
var SelfEncodingBrowsers = []string{"edge", "ie", "ie8", "ie9", "ie10", "ie11"}

// SelfEncodesWhitespace reports whether browser is one of SelfEncodingBrowsers.
func SelfEncodesWhitespace(browser string) bool {
	browser = strings.ToLower(strings.TrimSpace(browser))
	for _, b := range SelfEncodingBrowsers {
		if b == browser {
			return true
		}
	}
	return false
}

// InstallWhitespaceCompat registers a one-shot interception ahead of the paste filters.
// Unless the fixture's browser encodes whitespace itself, every literal space of the
// captured data is rewritten to &nbsp; as the clipboard would otherwise strip it.
func InstallWhitespaceCompat(editor paste.Editor, browser string) paste.Listener {
	selfEncoding := SelfEncodesWhitespace(browser)
	return editor.OncePaste(paste.PriorityCompat, func(ev *paste.Event) {
		if selfEncoding {
			return
		}
		ev.DataValue = markup.EncodeSpaces(ev.DataValue)
	})
}
