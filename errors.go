package dawai

import "errors"

// Errors reported when loading or rendering a song. All of them are detected
// eagerly at the load/render boundary; a song that fails to load is never
// returned half-constructed. Callers match with errors.Is and get the
// offending token/name/id from the wrapped message.
var (
	// ErrInvalidNote is returned when a note token matches neither the
	// numeric-literal nor the note-name grammar.
	ErrInvalidNote = errors.New("invalid note")

	// ErrMissingSample is returned when a sample track's name is not a key
	// in the song's sample map.
	ErrMissingSample = errors.New("missing sample")

	// ErrDanglingReference is returned when a track's cfg_id does not match
	// any config in the descriptor.
	ErrDanglingReference = errors.New("dangling config reference")

	// ErrUnsupportedTrackType is returned for an unrecognized track type tag.
	ErrUnsupportedTrackType = errors.New("unsupported track type")

	// ErrValidation is returned when a descriptor is missing a required
	// top-level key.
	ErrValidation = errors.New("invalid song descriptor")
)
