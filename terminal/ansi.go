package terminal

import "bufio"

// Pre-allocated control sequence fragments (avoid allocations during render).
var (
	csi       = []byte("\x1b[")
	csiSGR0   = []byte("\x1b[0m")
	csiClear  = []byte("\x1b[2J")
	csiCurPos = []byte("\x1b[") // followed by row;colH

	csiCursorHide = []byte("\x1b[?25l")
	csiCursorShow = []byte("\x1b[?25h")

	csiAltScreenEnter = []byte("\x1b[?1049h")
	csiAltScreenExit  = []byte("\x1b[?1049l")

	csiDefaultFg = []byte("\x1b[39m")
	csiDefaultBg = []byte("\x1b[49m")
	csiFg256     = []byte("\x1b[38;5;")
	csiBg256     = []byte("\x1b[48;5;")
	csiFgRGB     = []byte("\x1b[38;2;")
	csiBgRGB     = []byte("\x1b[48;2;")

	csiAttrBold          = []byte("\x1b[1m")
	csiAttrDim           = []byte("\x1b[2m")
	csiAttrItalic        = []byte("\x1b[3m")
	csiAttrBlink         = []byte("\x1b[5m")
	csiAttrReverse       = []byte("\x1b[7m")
	csiAttrStrikethrough = []byte("\x1b[9m")

	csiUnderlineColor256 = []byte("\x1b[58;5;")
	csiUnderlineColorRGB = []byte("\x1b[58;2;")

	csiUnderlineLine   = []byte("\x1b[4m")
	csiUnderlineCurl   = []byte("\x1b[4:3m")
	csiUnderlineDotted = []byte("\x1b[4:4m")
	csiUnderlineDashed = []byte("\x1b[4:5m")
	csiUnderlineDouble = []byte("\x1b[4:2m")
)

// writeInt writes a non-negative integer without allocation.
// Terminal parameters are almost always 0-255, rarely above 999.
func writeInt(w *bufio.Writer, n int) {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		w.WriteByte(byte(n) + '0')
		return
	}
	if n < 100 {
		w.WriteByte(byte(n/10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	if n < 1000 {
		w.WriteByte(byte(n/100) + '0')
		w.WriteByte(byte(n/10%10) + '0')
		w.WriteByte(byte(n%10) + '0')
		return
	}
	var buf [8]byte
	i := 7
	for n > 0 {
		buf[i] = byte(n%10) + '0'
		n /= 10
		i--
	}
	w.Write(buf[i+1:])
}

// writeCursorPos writes a cursor positioning sequence. Input coordinates are
// 0-based; the wire format is 1-based ESC[row;colH.
func writeCursorPos(w *bufio.Writer, col, row int) {
	w.Write(csiCurPos)
	writeInt(w, row+1)
	w.WriteByte(';')
	writeInt(w, col+1)
	w.WriteByte('H')
}
