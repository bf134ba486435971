package audit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeClient(t *testing.T) {
	assert.Empty(t, describeClient(""))
	assert.Empty(t, describeClient("   "))

	firefox := describeClient("Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0")
	assert.Contains(t, firefox, "Firefox")
	assert.Contains(t, firefox, "Linux")
	assert.NotContains(t, firefox, "mobile")

	bot := describeClient("Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)")
	assert.True(t, strings.HasPrefix(bot, "bot: "), bot)
}
