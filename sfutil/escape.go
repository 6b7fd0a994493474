package sfutil

const hexDigits = "0123456789abcdef"

var needsEscape = [256]bool{
	'"':  true,
	'\\': true,
}

func init() {
	for c := 0; c < 0x20; c++ {
		needsEscape[c] = true
	}
}

// AddStringBody appends the JSON string encoding of s without the
// surrounding quotes. Quote, backslash, and all control characters are
// escaped; everything else passes through byte-for-byte (the input is
// assumed to be UTF-8).
func (b *JBuilder) AddStringBody(s string) {
	n := len(s)
	if n > 0 {
		// Hint the compiler to remove bounds checks in the loop below.
		_ = s[n-1]
	}
	for i := 0; i < n; i++ {
		if needsEscape[s[i]] {
			b.escapes(s)
			return
		}
	}
	b.B = append(b.B, s...)
}

func (b *JBuilder) escapes(s string) {
	j := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !needsEscape[c] {
			continue
		}
		b.B = append(b.B, s[j:i]...)
		b.appendEscaped(c)
		j = i + 1
	}
	b.B = append(b.B, s[j:]...)
}

func (b *JBuilder) appendEscaped(c byte) {
	switch c {
	case '"':
		b.B = append(b.B, '\\', '"')
	case '\\':
		b.B = append(b.B, '\\', '\\')
	case '\n':
		b.B = append(b.B, '\\', 'n')
	case '\r':
		b.B = append(b.B, '\\', 'r')
	case '\t':
		b.B = append(b.B, '\\', 't')
	case '\f':
		b.B = append(b.B, '\\', 'f')
	case '\b':
		b.B = append(b.B, '\\', 'b')
	default:
		b.B = append(b.B, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0xf])
	}
}
