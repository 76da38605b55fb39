package model

// Kind names a backend-held collection. The value doubles as the endpoint
// path segment and as the key of the save envelope.
type Kind string

const (
	KindRequirements Kind = "requirements"
	KindShortlist    Kind = "shortlist"
)

// Capacity is the maximum number of items in any collection.
const Capacity = 20

func (k Kind) String() string {
	return string(k)
}
