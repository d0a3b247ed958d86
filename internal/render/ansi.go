package render

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// ansiPalette maps the 16 standard SGR colors to page colors. The scheme
// keeps dim text readable on the dark background.
var ansiPalette = map[int]string{
	30: "#555555", 31: "#e35f5f", 32: "#87d75f", 33: "#d7d75f",
	34: "#5f87d7", 35: "#d75fd7", 36: "#5fd7d7", 37: "#d0d0d0",
	90: "#808080", 91: "#ff8787", 92: "#afff87", 93: "#ffff87",
	94: "#87afff", 95: "#ff87ff", 96: "#87ffff", 97: "#ffffff",
}

// sgrState tracks the currently active display attributes.
type sgrState struct {
	fg   string
	bold bool
}

func (s sgrState) active() bool {
	return s.fg != "" || s.bold
}

func (s sgrState) style() string {
	var parts []string
	if s.fg != "" {
		parts = append(parts, "color:"+s.fg)
	}
	if s.bold {
		parts = append(parts, "font-weight:bold")
	}
	return strings.Join(parts, ";")
}

// AnsiToHTML converts text with ANSI SGR color sequences into HTML spans.
// Plain text is HTML-escaped. Unknown sequences are stripped. The result is
// meant to be embedded in a <pre> block.
func AnsiToHTML(input string) string {
	var b strings.Builder
	var state sgrState
	open := false

	flushSpan := func() {
		if open {
			b.WriteString("</span>")
			open = false
		}
	}
	applyState := func() {
		flushSpan()
		if state.active() {
			fmt.Fprintf(&b, `<span style=%q>`, state.style())
			open = true
		}
	}

	for i := 0; i < len(input); {
		c := input[i]
		if c != 0x1b {
			// Escape one rune's worth of text at a time is wasteful; batch
			// until the next escape byte.
			j := strings.IndexByte(input[i:], 0x1b)
			if j == -1 {
				b.WriteString(html.EscapeString(input[i:]))
				break
			}
			b.WriteString(html.EscapeString(input[i : i+j]))
			i += j
			continue
		}

		// ESC without '[' is not a CSI sequence; drop the byte.
		if i+1 >= len(input) || input[i+1] != '[' {
			i++
			continue
		}

		// Scan to the final byte of the CSI sequence.
		end := i + 2
		for end < len(input) && !isCSIFinal(input[end]) {
			end++
		}
		if end >= len(input) {
			break
		}

		if input[end] == 'm' {
			state = applySGR(state, input[i+2:end])
			applyState()
		}
		i = end + 1
	}

	flushSpan()
	return b.String()
}

// isCSIFinal reports whether b terminates a CSI sequence.
func isCSIFinal(b byte) bool {
	return b >= 0x40 && b <= 0x7e
}

// applySGR folds a semicolon-separated SGR parameter list into the state.
func applySGR(state sgrState, params string) sgrState {
	if params == "" {
		return sgrState{}
	}

	for _, p := range strings.Split(params, ";") {
		n, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			state = sgrState{}
		case n == 1:
			state.bold = true
		case n == 22:
			state.bold = false
		case n == 39:
			state.fg = ""
		default:
			if color, ok := ansiPalette[n]; ok {
				state.fg = color
			}
		}
	}
	return state
}
