package ai

import "fmt"

// ErrorKind classifies a generation failure
type ErrorKind string

const (
	// KindMissingCredential means no API key is configured
	KindMissingCredential ErrorKind = "missing_credential"
	// KindTimeout means the request timed out or was cancelled
	KindTimeout ErrorKind = "timeout"
	// KindQuota means the backend rejected the call for rate or quota reasons
	KindQuota ErrorKind = "quota"
	// KindMalformed means the backend answered with an unusable payload
	KindMalformed ErrorKind = "malformed"
	// KindUpstream covers every other backend or transport failure
	KindUpstream ErrorKind = "upstream"
)

// GenerationError is the typed failure of any generator call, so callers can
// handle failure modes exhaustively instead of testing for nil.
type GenerationError struct {
	Kind    ErrorKind
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %s", e.Kind, e.Message)
}

func generationErrorf(kind ErrorKind, format string, args ...interface{}) *GenerationError {
	return &GenerationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
