package tilegrid

import "errors"

var (
	// ErrMissingOption is returned by ApplyOptions when a required option is absent.
	ErrMissingOption = errors.New("tilegrid: missing required option")

	// ErrMissingCapability is returned when a capability is applied to a class
	// that lacks its prerequisite.
	ErrMissingCapability = errors.New("tilegrid: missing prerequisite capability")

	// ErrVersionMismatch is returned by Load for documents written by an
	// incompatible format version.
	ErrVersionMismatch = errors.New("tilegrid: metadata file version mismatch")

	// ErrUnknownObject is returned by Load when a cell references an object id
	// or source image that cannot be resolved.
	ErrUnknownObject = errors.New("tilegrid: unknown object")

	// ErrUnsupportedImage is returned by image providers for bytes that are not
	// a decodable image.
	ErrUnsupportedImage = errors.New("tilegrid: unsupported image format")

	// ErrNotInitialized is returned by operations that need Init to have run.
	ErrNotInitialized = errors.New("tilegrid: canvas not initialized")

	// ErrResponseTooLarge is returned by HTTPProvider when a body exceeds its
	// size cap.
	ErrResponseTooLarge = errors.New("tilegrid: response too large")
)
