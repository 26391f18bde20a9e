package render

import (
	"strconv"
	"strings"
)

const (
	ESC   = "\x1b"
	CSI   = ESC + "["
	Reset = CSI + "0m"
)

// MoveTo positions the cursor at row, col (1-based).
func MoveTo(row, col int) string {
	return CSI + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func ClearScreen() string      { return CSI + "2J" }
func HideCursor() string       { return CSI + "?25l" }
func ShowCursor() string       { return CSI + "?25h" }
func EnableAltScreen() string  { return CSI + "?1049h" }
func DisableAltScreen() string { return CSI + "?1049l" }

func writeRGB(sb *strings.Builder, c Color) {
	sb.WriteString(strconv.Itoa(int(c.R)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.G)))
	sb.WriteByte(';')
	sb.WriteString(strconv.Itoa(int(c.B)))
}

// WriteCellSGR writes one cell as a complete SGR sequence plus its rune.
// Every cell resets attributes first, so no state leaks between cells.
func WriteCellSGR(sb *strings.Builder, c Cell) {
	if c.Bold {
		sb.WriteString(CSI + "0;1;38;2;")
	} else {
		sb.WriteString(CSI + "0;38;2;")
	}
	writeRGB(sb, c.Fg)
	sb.WriteString(";48;2;")
	writeRGB(sb, c.Bg)
	sb.WriteByte('m')
	if c.Ch == 0 {
		sb.WriteByte(' ')
		return
	}
	sb.WriteRune(c.Ch)
}
