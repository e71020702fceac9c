package domain

import "errors"

// Sentinel errors used across layers.
var (
	// ErrImagePreprocessing marks an unrecoverable decode/encode failure.
	// There is no image to fall back to, so it always propagates.
	ErrImagePreprocessing = errors.New("image preprocessing failed")

	// ErrNoIngredients means both the JSON and heuristic extraction paths
	// came up empty. Detection propagates this rather than fabricating
	// ingredients.
	ErrNoIngredients = errors.New("no ingredients recognized")

	// ErrEmptyResponse means the remote service returned 2xx with no body.
	ErrEmptyResponse = errors.New("no data received")
)
