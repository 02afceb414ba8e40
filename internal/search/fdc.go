// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"strings"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// FoodSearcher is the part of the FDC client a backend needs.
type FoodSearcher interface {
	Search(ctx context.Context, query string, dataTypes []string) ([]types.FoodRecord, error)
}

// FDCBackend searches FoodData Central restricted to one set of data types.
// An empty DataTypes uses the client's defaults.
type FDCBackend struct {
	Client    FoodSearcher
	DataTypes []string
}

// Name returns the backend identifier, e.g. "fdc:Foundation+SR Legacy".
func (b *FDCBackend) Name() string {
	if len(b.DataTypes) == 0 {
		return "fdc"
	}
	return "fdc:" + strings.Join(b.DataTypes, "+")
}

// Search forwards the query to the FDC client.
func (b *FDCBackend) Search(ctx context.Context, query Query) ([]types.FoodRecord, error) {
	return b.Client.Search(ctx, strings.TrimSpace(query.Text), b.DataTypes)
}

// Backends builds one FDC backend per data-type group. With no groups it
// returns a single backend using the client's defaults.
func Backends(client FoodSearcher, groups ...[]string) []Backend {
	if len(groups) == 0 {
		return []Backend{&FDCBackend{Client: client}}
	}
	backends := make([]Backend, 0, len(groups))
	for _, g := range groups {
		backends = append(backends, &FDCBackend{Client: client, DataTypes: g})
	}
	return backends
}
