package rangeseek

import (
	"fmt"
	"html"
	"html/template"
	"strconv"
	"strings"
)

// ConvertANSIToHTML converts a rendered view to HTML, turning SGR color and
// bold sequences into styled spans. Other escape sequences are dropped and
// text is escaped.
func ConvertANSIToHTML(view string) template.HTML {
	return template.HTML(convertANSIToHTML(view))
}

// convertANSIToHTML walks the text as a small state machine, keeping one
// span open at a time.
func convertANSIToHTML(ansiText string) string {
	var result strings.Builder
	var text strings.Builder
	open := false

	flush := func() {
		if text.Len() > 0 {
			result.WriteString(html.EscapeString(text.String()))
			text.Reset()
		}
	}

	i := 0
	for i < len(ansiText) {
		char := ansiText[i]

		switch {
		case char == '\r':
			i++

		case char == '\n':
			flush()
			result.WriteString("<br>")
			i++

		case char == '\x1b' && i+1 < len(ansiText) && ansiText[i+1] == '[':
			flush()
			i += 2

			// Collect parameters up to the final byte
			var seqBuilder strings.Builder
			final := byte(0)
			for i < len(ansiText) {
				c := ansiText[i]
				i++
				if c >= 0x40 && c <= 0x7e {
					final = c
					break
				}
				seqBuilder.WriteByte(c)
			}
			if final != 'm' {
				continue
			}

			style := sgrStyle(seqBuilder.String())
			if open {
				result.WriteString("</span>")
				open = false
			}
			if style != "" {
				result.WriteString(`<span style="` + style + `">`)
				open = true
			}

		default:
			text.WriteByte(char)
			i++
		}
	}

	flush()
	if open {
		result.WriteString("</span>")
	}
	return result.String()
}

// sgrStyle converts SGR parameters to CSS. Only bold, italic and 256-color
// foreground and background are understood; a reset yields "".
func sgrStyle(params string) string {
	var css []string
	fields := strings.Split(params, ";")

	for i := 0; i < len(fields); i++ {
		switch fields[i] {
		case "", "0":
			css = css[:0]
		case "1":
			css = append(css, "font-weight: bold;")
		case "3":
			css = append(css, "font-style: italic;")
		case "38", "48":
			if i+2 >= len(fields) || fields[i+1] != "5" {
				continue
			}
			n, err := strconv.Atoi(fields[i+2])
			if err != nil || n < 0 || n > 255 {
				i += 2
				continue
			}
			property := "color"
			if fields[i] == "48" {
				property = "background"
			}
			css = append(css, fmt.Sprintf("%s: %s;", property, xterm256(n)))
			i += 2
		}
	}

	return strings.Join(css, " ")
}

var ansi16 = [16]string{
	"#000000", "#800000", "#008000", "#808000", "#000080", "#800080", "#008080", "#c0c0c0",
	"#808080", "#ff0000", "#00ff00", "#ffff00", "#0000ff", "#ff00ff", "#00ffff", "#ffffff",
}

// xterm256 returns the hex color of a 256-color palette index.
func xterm256(n int) string {
	switch {
	case n < 16:
		return ansi16[n]
	case n < 232:
		levels := [6]int{0, 95, 135, 175, 215, 255}
		n -= 16
		return fmt.Sprintf("#%02x%02x%02x", levels[n/36], levels[(n/6)%6], levels[n%6])
	default:
		gray := 8 + 10*(n-232)
		return fmt.Sprintf("#%02x%02x%02x", gray, gray, gray)
	}
}
