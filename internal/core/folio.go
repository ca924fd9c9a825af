package core

import (
	"strings"

	"github.com/google/uuid"
)

// FolioPrefix starts every contract folio.
const FolioPrefix = "CTR-"

// FolioGenerator produces human readable contract codes. Implementations must
// never return the same value twice within the lifetime of a store.
type FolioGenerator interface {
	Next() string
}

// FolioFunc adapts a function to FolioGenerator.
type FolioFunc func() string

func (f FolioFunc) Next() string { return f() }

// UUIDFolios generates folios from time ordered UUIDv7 values, so folios sort
// roughly by creation time and stay unique across processes.
type UUIDFolios struct{}

func (UUIDFolios) Next() string {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return FolioPrefix + strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
}
