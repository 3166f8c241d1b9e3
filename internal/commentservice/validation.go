package commentservice

import (
	"html"

	"github.com/microcosm-cc/bluemonday"

	"github.com/rx0a/rayspace/internal/common"
)

const maxCommentLength = 500

var strictPolicy = bluemonday.StrictPolicy()

// maxSanitizePasses bounds how many layers of entity encoding a comment may carry.
const maxSanitizePasses = 4

// sanitizeComment reduces s to plain text. Stripping tags and decoding entities
// repeat until neither changes the text, so markup hidden behind entity encoding
// is stripped as well. ok is false when the text never settles.
func sanitizeComment(s string) (string, bool) {
	for range maxSanitizePasses {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return s, true
		}
		s = next
	}

	return "", false
}

func validateComment(v *common.Validator, comment string) {
	v.Check(v.NotBlank(comment), "comment", "must be provided")
	v.Check(v.CheckStringLength(comment, 0, maxCommentLength), "comment", "must not be more than 500 characters long")
}

func validateIdentity(v *common.Validator, userID, name string) {
	v.Check(userID != "", "user_id", "must be provided")
	v.Check(v.NotBlank(name), "name", "must be provided")
}
