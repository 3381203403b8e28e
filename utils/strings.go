package utils

import (
	"bytes"

	"golang.org/x/text/transform"

	"github.com/GooberRF/redux-sub001/config"
	"github.com/GooberRF/redux-sub001/logger"
)

// BytesToString decodes a null-terminated (or full-length) name field using
// the configured game codepage.
func BytesToString(bs []byte) string {
	n := bytes.IndexByte(bs, 0)
	if n < 0 {
		n = len(bs)
	}

	s, _, err := transform.Bytes(config.GetEncoding().NewDecoder(), bs[0:n])
	if err != nil {
		logger.Sugar.Warnf("Failed to decode name bytes %q: %v", bs[0:n], err)
		return string(bs[0:n])
	}

	return string(s)
}

// StringToBytesBuffer encodes a name into a fixed-size null-padded field.
// Names too long for the field are truncated.
func StringToBytesBuffer(s string, bufSize int) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		logger.Sugar.Warnf("Failed to encode name %q: %v", s, err)
		bs = []byte(s)
	}
	r := make([]byte, bufSize)
	if len(bs) >= bufSize {
		copy(r, bs[:bufSize-1])
	} else {
		copy(r, bs)
	}
	return r
}

// StringToBytes encodes a name with the configured game codepage.
func StringToBytes(s string) []byte {
	bs, _, err := transform.Bytes(config.GetEncoding().NewEncoder(), []byte(s))
	if err != nil {
		logger.Sugar.Warnf("Failed to encode name %q: %v", s, err)
		return []byte(s)
	}
	return bs
}
