//go:build rp2040 || rp2350

package fmtx

import "io"

// MCU build: a minimal formatter covering the verbs this firmware uses
// (%d, %s, %c, %%, with optional zero padding and width, e.g. %02d, %3d).
// fmt pulls in reflection, which costs too much flash on the target.

// DefaultOutput is used by Printf on MCU builds. The platform bootstrap
// points it at the debug UART.
var DefaultOutput io.Writer = discard{}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func Sprintf(format string, a ...any) string {
	return string(appendFormat(nil, format, a...))
}

func Printf(format string, a ...any) (int, error) {
	return DefaultOutput.Write(appendFormat(nil, format, a...))
}

func Fprintf(w io.Writer, format string, a ...any) (int, error) {
	return w.Write(appendFormat(nil, format, a...))
}

func appendFormat(buf []byte, format string, a ...any) []byte {
	argi := 0
	i := 0
	for i < len(format) {
		c := format[i]
		if c != '%' {
			buf = append(buf, c)
			i++
			continue
		}
		i++
		if i >= len(format) {
			buf = append(buf, '%')
			break
		}
		if format[i] == '%' {
			buf = append(buf, '%')
			i++
			continue
		}
		// Optional zero flag and width.
		pad := byte(' ')
		if format[i] == '0' {
			pad = '0'
			i++
		}
		width := 0
		for i < len(format) && format[i] >= '0' && format[i] <= '9' {
			width = width*10 + int(format[i]-'0')
			i++
		}
		if i >= len(format) || argi >= len(a) {
			buf = append(buf, '?')
			break
		}
		switch format[i] {
		case 'd':
			buf = appendInt(buf, toInt(a[argi]), width, pad)
		case 's':
			s, _ := a[argi].(string)
			for len(s) < width {
				s = " " + s
			}
			buf = append(buf, s...)
		case 'c':
			buf = append(buf, byte(toInt(a[argi])))
		default:
			buf = append(buf, '?')
		}
		argi++
		i++
	}
	return buf
}

func toInt(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint8:
		return int(x)
	case uint16:
		return int(x)
	case uint32:
		return int(x)
	case uint:
		return int(x)
	}
	return 0
}

func appendInt(buf []byte, v, width int, pad byte) []byte {
	neg := v < 0
	if neg {
		v = -v
	}
	var tmp [12]byte
	n := len(tmp)
	if v == 0 {
		n--
		tmp[n] = '0'
	}
	for v > 0 {
		n--
		tmp[n] = byte('0' + v%10)
		v /= 10
	}
	if neg && pad == '0' {
		buf = append(buf, '-')
		width--
	} else if neg {
		n--
		tmp[n] = '-'
	}
	for len(tmp)-n < width {
		n--
		tmp[n] = pad
	}
	return append(buf, tmp[n:]...)
}
