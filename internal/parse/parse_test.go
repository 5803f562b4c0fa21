package parse

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWebhookURL(t *testing.T) {
	testCases := []struct {
		name      string
		raw       string
		expected  string
		expectErr bool
	}{
		{
			name:     "https url",
			raw:      "https://hooks.example.com/boo",
			expected: "https://hooks.example.com/boo",
		},
		{
			name:     "http url with port and query",
			raw:      "http://192.168.1.20:8123/api/webhook/boo?x=1",
			expected: "http://192.168.1.20:8123/api/webhook/boo?x=1",
		},
		{
			name:     "surrounding whitespace is trimmed",
			raw:      "  https://example.com/hook\n",
			expected: "https://example.com/hook",
		},
		{
			name:     "upper case scheme",
			raw:      "HTTPS://example.com",
			expected: "HTTPS://example.com",
		},
		{name: "empty", raw: "", expectErr: true},
		{name: "blank", raw: "   ", expectErr: true},
		{name: "relative path", raw: "/hook", expectErr: true},
		{name: "no scheme", raw: "example.com/hook", expectErr: true},
		{name: "unsupported scheme", raw: "ftp://example.com/hook", expectErr: true},
		{name: "missing host", raw: "https:///hook", expectErr: true},
		{name: "port without host", raw: "http://:8080/hook", expectErr: true},
		{name: "malformed", raw: "http://[::1", expectErr: true},
		{name: "too long", raw: "https://example.com/" + strings.Repeat("a", maxURLLength), expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := WebhookURL(tc.raw)
			if tc.expectErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, got)
			}
		})
	}
}

func TestText(t *testing.T) {
	got, err := Text([]byte("  boo & hello  "))
	assert.NoError(t, err)
	assert.Equal(t, "  boo & hello  ", got)

	_, err = Text(nil)
	assert.ErrorIs(t, err, ErrEmptyText)

	_, err = Text([]byte{0xff, 0xfe})
	assert.ErrorIs(t, err, ErrInvalidText)
}
