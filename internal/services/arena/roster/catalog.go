package roster

import (
	"context"
	"fmt"

	apperrors "github.com/louisbranch/creature-arena/internal/platform/errors"
	"github.com/louisbranch/creature-arena/internal/platform/grpc/pagination"
	"github.com/louisbranch/creature-arena/internal/services/arena/filter"
	"github.com/louisbranch/creature-arena/internal/services/arena/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ListRequest is a transport-neutral catalog listing request.
type ListRequest struct {
	Filter    string
	OrderBy   string
	PageSize  int32
	PageToken string
}

// ListResult is one page of the catalog.
type ListResult struct {
	Creatures     []storage.Creature
	NextPageToken string
	TotalSize     int
}

// Catalog lists creatures with AIP-160 filters and offset page tokens.
type Catalog struct {
	store storage.CreatureStore
}

// NewCatalog returns a Catalog backed by store.
func NewCatalog(store storage.CreatureStore) *Catalog {
	return &Catalog{store: store}
}

// List returns one page of creatures. Bad filters, orders and page tokens
// fail with a coded invalid-argument error.
func (c *Catalog) List(ctx context.Context, req ListRequest) (ListResult, error) {
	if c == nil || c.store == nil {
		return ListResult{}, fmt.Errorf("creature store is not configured")
	}

	cond, err := filter.Parse(req.Filter)
	if err != nil {
		return ListResult{}, err
	}
	orderBy, err := pagination.NormalizeOrderBy(req.OrderBy, pagination.OrderByConfig{
		Default: storage.OrderByName,
		Allowed: storage.OrderByOptions,
	})
	if err != nil {
		return ListResult{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, err.Error(), map[string]string{"Reason": err.Error()})
	}
	offset, err := pagination.DecodeOffset(req.PageToken)
	if err != nil {
		return ListResult{}, apperrors.WithMetadata(apperrors.CodeInvalidArgument, err.Error(), map[string]string{"Reason": err.Error()})
	}
	pageSize := pagination.ClampPageSize(req.PageSize, pagination.PageSizeConfig{Default: defaultPageSize, Max: maxPageSize})

	page, err := c.store.ListCreatures(ctx, storage.ListCreaturesRequest{
		PageSize:     pageSize,
		Offset:       offset,
		OrderBy:      orderBy,
		FilterClause: cond.Clause,
		FilterParams: cond.Params,
	})
	if err != nil {
		return ListResult{}, fmt.Errorf("list creatures: %w", err)
	}

	result := ListResult{Creatures: page.Creatures, TotalSize: page.TotalCount}
	if page.HasNextPage {
		result.NextPageToken = pagination.EncodeOffset(offset + len(page.Creatures))
	}
	return result, nil
}
