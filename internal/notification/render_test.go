package notification_test

import (
	"testing"

	"go-leaves/internal/notification"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	subject, body := notification.Render(
		"Leave - {{employee_name}}",
		"Dear {{employee_name}},\nReason: {{reason}}\n{{unknown}}",
		map[string]string{
			"employee_name": "Jane & <John>",
			"reason":        `<script>alert("x")</script>`,
		},
	)

	assert.Equal(t, "Leave - Jane & <John>", subject)
	assert.Equal(t,
		"Dear Jane &amp; &lt;John&gt;,<br />\nReason: &lt;script&gt;alert(&#34;x&#34;)&lt;/script&gt;<br />\n{{unknown}}",
		body,
	)
}

func TestRender_PlaceholdersAreNotNested(t *testing.T) {
	_, body := notification.Render("", "{{a}}", map[string]string{
		"a": "{{b}}",
		"b": "boom",
	})
	assert.Equal(t, "{{b}}", body)
}

func TestCollectUniqueRecipients(t *testing.T) {
	got := notification.CollectUniqueRecipients("a@x.com, A@X.com", "b@x.com", "c@x.com")
	assert.Equal(t, []string{"a@x.com", "b@x.com", "c@x.com"}, got)

	got = notification.CollectUniqueRecipients("bad, m@x.com", "m@x.com;r@x.com", "")
	assert.Equal(t, []string{"m@x.com", "r@x.com"}, got)
}
