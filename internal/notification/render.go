package notification

import (
	"html"
	"strings"

	"go-leaves/internal/shared/emaillist"
)

// Render substitutes {{key}} placeholders. Values are HTML escaped in the
// body, which is then converted so line breaks survive in HTML mail.
// Unknown placeholders are left as they are.
func Render(subject, body string, vars map[string]string) (string, string) {
	plain := make([]string, 0, len(vars)*2)
	escaped := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		key := "{{" + k + "}}"
		plain = append(plain, key, v)
		escaped = append(escaped, key, html.EscapeString(v))
	}

	subject = strings.NewReplacer(plain...).Replace(subject)
	body = strings.NewReplacer(escaped...).Replace(body)
	return subject, nl2br(body)
}

func nl2br(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "<br />\n")
}

// CollectUniqueRecipients merges the manager and reliever lists with extra,
// dropping malformed addresses and case-insensitive duplicates. The first
// casing seen wins.
func CollectUniqueRecipients(managerEmails, relieverEmails string, extra ...string) []string {
	return emaillist.Unique(emaillist.Split(managerEmails), emaillist.Split(relieverEmails), extra)
}
