package wire

import "bytes"

// CString extracts text from a fixed-size EC string field. The controller
// should NUL-terminate these fields but is not trusted to: when no
// terminator is present the final byte is treated as one, matching the
// defensive termination the protocol requires before rendering text.
func CString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}
	if len(b) == 0 {
		return ""
	}
	return string(b[:len(b)-1])
}
