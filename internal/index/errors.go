package index

import (
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

var (
	// ErrOpenFailed indicates the SQLite database could not be opened.
	ErrOpenFailed = errors.IndexError("could not open content index").Build()

	// ErrSchemaFailed indicates the index schema could not be created.
	ErrSchemaFailed = errors.IndexError("failed to initialize content index schema").Build()

	// ErrWriteFailed indicates a node could not be stored.
	ErrWriteFailed = errors.IndexError("failed to write node to content index").Build()

	// ErrQueryFailed indicates a read from the index failed.
	ErrQueryFailed = errors.IndexError("failed to query content index").Build()

	// ErrDecodeFailed indicates a stored node could not be decoded.
	ErrDecodeFailed = errors.IndexError("failed to decode indexed node").Build()
)
