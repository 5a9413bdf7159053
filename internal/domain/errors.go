package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing or empty search query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidCursor signals a malformed pagination cursor.
	ErrInvalidCursor = errors.New("invalid cursor")
	// ErrInvalidPart signals an invalid part registration payload.
	ErrInvalidPart = errors.New("invalid part")
	// ErrPartNotFound signals a missing catalog part.
	ErrPartNotFound = errors.New("part not found")
	// ErrPartExists signals a duplicate part registration.
	ErrPartExists = errors.New("part already exists")
	// ErrVectorDimMismatch signals vectors of different lengths in one
	// similarity computation. Indicates corpus corruption (e.g. mixed
	// embedding model versions) and is always fatal.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrCompletionProviderError signals a completion provider failure.
	ErrCompletionProviderError = errors.New("completion provider error")
)
