package transcribe

import "errors"

var (
	// ErrNotTranscribed indicates Solve was called before Transcribe.
	ErrNotTranscribed = errors.New("transcribe: scheme has not been transcribed")

	// ErrAlreadyTranscribed indicates Transcribe ran twice on one instance.
	ErrAlreadyTranscribed = errors.New("transcribe: instance already transcribed")

	// ErrBackend wraps a fatal backend invocation failure.
	ErrBackend = errors.New("transcribe: backend invocation failed")
)
