// Package conv holds allocation-free numeric formatting for paths that must
// not pull in fmt (MCU logging, escape-sequence framing).
package conv

// AppendUint appends the base-10 representation of n to buf and returns the
// extended slice.
func AppendUint(buf []byte, n uint64) []byte {
	var tmp [20]byte
	i := len(tmp)
	for {
		i--
		tmp[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return append(buf, tmp[i:]...)
}
