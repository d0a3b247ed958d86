package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnsiToHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "gpu1 ok",
			want:  "gpu1 ok",
		},
		{
			name:  "html is escaped",
			input: "a < b & c > d",
			want:  "a &lt; b &amp; c &gt; d",
		},
		{
			name:  "red foreground",
			input: "\x1b[31merror\x1b[0m done",
			want:  `<span style="color:#e35f5f">error</span> done`,
		},
		{
			name:  "bold",
			input: "\x1b[1mhot\x1b[0m",
			want:  `<span style="font-weight:bold">hot</span>`,
		},
		{
			name:  "bold red combined",
			input: "\x1b[1;31mbad\x1b[0m",
			want:  `<span style="color:#e35f5f;font-weight:bold">bad</span>`,
		},
		{
			name:  "style change without reset",
			input: "\x1b[32mup\x1b[33mwarn\x1b[0m",
			want:  `<span style="color:#87d75f">up</span><span style="color:#d7d75f">warn</span>`,
		},
		{
			name:  "bare reset sequence",
			input: "\x1b[mplain",
			want:  "plain",
		},
		{
			name:  "non-sgr csi stripped",
			input: "\x1b[2Jcleared",
			want:  "cleared",
		},
		{
			name:  "unterminated escape dropped",
			input: "text\x1b[31",
			want:  "text",
		},
		{
			name:  "default foreground restores",
			input: "\x1b[1;36mx\x1b[39my\x1b[0m",
			want:  `<span style="color:#5fd7d7;font-weight:bold">x</span><span style="font-weight:bold">y</span>`,
		},
		{
			name:  "bright colors",
			input: "\x1b[97mwhite\x1b[0m",
			want:  `<span style="color:#ffffff">white</span>`,
		},
		{
			name:  "trailing open span closed",
			input: "\x1b[31munclosed",
			want:  `<span style="color:#e35f5f">unclosed</span>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AnsiToHTML(tt.input))
		})
	}
}

func TestAnsiToHTMLMultiline(t *testing.T) {
	input := "\x1b[1m(gpu1)\x1b[0m gpu ok\n\x1b[31m(gpu2) timeout\x1b[0m\n"
	got := AnsiToHTML(input)
	assert.Contains(t, got, "(gpu1)")
	assert.Contains(t, got, "(gpu2) timeout")
	assert.Contains(t, got, "\n")
}
