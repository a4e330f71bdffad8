package core

// itoa converts an integer to a string without using fmt package
func itoa(n int) string {
	if n < 0 {
		return "-" + utoa(uint32(-n))
	}
	return utoa(uint32(n))
}

// utoa converts an unsigned integer to a string
func utoa(n uint32) string {
	var buf [10]byte
	return string(appendUint(buf[:0], n))
}

// appendUint appends the decimal form of n to dst.
func appendUint(dst []byte, n uint32) []byte {
	if n == 0 {
		return append(dst, '0')
	}
	var tmp [10]byte
	pos := len(tmp)
	for n > 0 {
		pos--
		tmp[pos] = byte('0' + n%10)
		n /= 10
	}
	return append(dst, tmp[pos:]...)
}

// FormatHz renders a frequency label: "1Hz", "300Hz", "1kHz", "10kHz".
// Values that are not whole kilohertz stay in Hz.
func FormatHz(hz uint32) string {
	var buf [16]byte
	b := buf[:0]
	if hz >= 1000 && hz%1000 == 0 {
		b = appendUint(b, hz/1000)
		b = append(b, 'k')
	} else {
		b = appendUint(b, hz)
	}
	b = append(b, 'H', 'z')
	return string(b)
}
