package storage

import (
	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
)

type emptyCatalog struct{}

func (emptyCatalog) Lookup(string) (catalog.Entry, bool) {
	return catalog.Entry{}, false
}

func sessionMeta() scorecard.Meta {
	return scorecard.Meta{OwnerKey: "k", Tags: []string{"archive"}}
}
