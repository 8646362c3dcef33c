package classifier

import "errors"

var (
	// ErrInvalidArtifact indicates a model artifact that does not match the expected shape.
	ErrInvalidArtifact = errors.New("invalid model artifact")
	// ErrRemote indicates the model server rejected or failed a request.
	ErrRemote = errors.New("model server error")
)
