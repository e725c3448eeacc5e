package store

import "fmt"

// Kind names one of the five record collections.
type Kind string

// Record collections.
const (
	KindBooks  Kind = "books"
	KindPlans  Kind = "plans"
	KindLogs   Kind = "logs"
	KindImages Kind = "images"
	KindMeta   Kind = "meta"
)

// AllKinds lists every collection in the order they are cleared.
var AllKinds = []Kind{KindBooks, KindPlans, KindLogs, KindImages, KindMeta}

// Prefix returns the key prefix for records of this kind.
func (k Kind) Prefix() string {
	switch k {
	case KindBooks:
		return "book:"
	case KindPlans:
		return "plan:"
	case KindLogs:
		return "log:"
	case KindImages:
		return "image:"
	case KindMeta:
		return "meta:"
	default:
		return ""
	}
}

// Valid reports whether k is a known collection.
func (k Kind) Valid() bool {
	return k.Prefix() != ""
}

// ParseKind converts a collection name to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown collection %q", s)
	}
	return k, nil
}

// Index names.
const (
	IndexSubject   = "subject"
	IndexCreatedAt = "createdAt"
	IndexDate      = "date"
	IndexDatetime  = "datetime"
	IndexBookID    = "bookId"
)
