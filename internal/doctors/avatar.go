package doctors

import (
	"fmt"
	"net/url"
	"strings"
)

// AvatarURL builds a deterministic avatar image URL from the doctor's
// initials. ui-avatars.com renders the initials server-side, so no image
// storage is needed.
func AvatarURL(name string) string {
	var initials strings.Builder
	count := 0
	for _, part := range strings.Fields(name) {
		runes := []rune(part)
		initials.WriteString(strings.ToUpper(string(runes[0])))
		if count++; count >= 2 {
			break
		}
	}
	return fmt.Sprintf(
		"https://ui-avatars.com/api/?name=%s&background=random&color=fff&size=128",
		url.QueryEscape(initials.String()),
	)
}
