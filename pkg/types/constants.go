package types

const (
	// DefaultHistoryLimit is the page size when a history listing gives none.
	DefaultHistoryLimit = 10
	// MaxHistoryLimit caps a single history page.
	MaxHistoryLimit = 100
	// MaxBodyBytes caps the size of a JSON request body.
	MaxBodyBytes = 1 << 20
)
