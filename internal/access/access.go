// Package access decides whether a caller may read or write a document.
package access

import (
	"errors"

	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/model"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
)

type Capability int

const (
	Read Capability = iota
	Write
)

func (c Capability) String() string {
	switch c {
	case Read:
		return "read"
	case Write:
		return "write"
	default:
		return "unknown"
	}
}

// Public reports whether doc is readable without an identity.
func Public(doc *model.Document) bool {
	return doc.IsPublished && !doc.IsArchived
}

// Check returns ErrUnauthorized unless id holds capability on doc.
// The owner holds every capability; anyone may read a published document that is not in the trash.
func Check(doc *model.Document, id *auth.Identity, capability Capability) error {
	if capability == Read && Public(doc) {
		return nil
	}
	if id == nil || id.Subject != doc.OwnerID {
		return ErrUnauthorized
	}

	return nil
}
