package creditnote

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/creditnote/backend/internal/domain/erp"
)

// ErrCompanyNotFound means the configured company name matched no
// company record in the backend.
var ErrCompanyNotFound = errors.New("creditnote: company not found")

// CompanyResolver resolves the configured operating company to its
// backend ID. Companies never change at runtime, so the first
// successful lookup is cached for the life of the process.
type CompanyResolver struct {
	gateway erp.Gateway
	name    string

	mu sync.Mutex
	id int64
}

// NewCompanyResolver creates a resolver for the named company.
func NewCompanyResolver(gateway erp.Gateway, name string) *CompanyResolver {
	return &CompanyResolver{gateway: gateway, name: name}
}

// Resolve returns the backend ID of the configured company.
func (r *CompanyResolver) Resolve(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.id != 0 {
		return r.id, nil
	}

	ids, err := r.gateway.Search(ctx, erp.ModelResCompany,
		erp.Where(erp.Eq("name", r.name)), &erp.Options{Limit: 1})
	if err != nil {
		return 0, fmt.Errorf("failed to resolve company %q: %w", r.name, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: %q", ErrCompanyNotFound, r.name)
	}

	r.id = ids[0]
	return r.id, nil
}
