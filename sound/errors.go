package sound

import (
	"errors"
	"fmt"
)

// ErrDeviceClosed is returned when using a Device after Close.
var ErrDeviceClosed = errors.New("sound: device closed")

// ErrDeviceOpen is returned by OpenDevice while another device is open.
var ErrDeviceOpen = errors.New("sound: a device is already open")

// DecodeError reports a malformed container. The stream is excluded from
// playback; other streams are unaffected.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sound: decode: %s: %v", e.Reason, e.Err)
	}
	return "sound: decode: " + e.Reason
}

func (e *DecodeError) Unwrap() error { return e.Err }

// AudioFormatError reports a well-formed container whose sample format, or a
// requested device format, is not supported.
type AudioFormatError struct {
	Reason string
}

func (e *AudioFormatError) Error() string {
	return "sound: unsupported format: " + e.Reason
}

// UnderrunWarning reports that the backend ran out of samples before the
// device needed them. It is telemetry only.
type UnderrunWarning struct {
	Count uint64 // underruns since the previous warning
	Total uint64
}

func (w *UnderrunWarning) Error() string {
	return fmt.Sprintf("sound: %d buffer underrun(s), %d total", w.Count, w.Total)
}
