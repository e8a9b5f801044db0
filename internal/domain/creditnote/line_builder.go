package creditnote

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/domain/erp"
)

var (
	// ErrQuantityExceedsLots rejects a quantity override above the lot count.
	ErrQuantityExceedsLots = errors.New("creditnote: quantity exceeds available lot count")
	// ErrQuantityNotPositive rejects a zero or negative quantity override.
	ErrQuantityNotPositive = errors.New("creditnote: quantity must be positive")
)

// LineInput is one candidate credit note line: a reconciliation group,
// possibly with a user-adjusted quantity. Quantity zero means "use the
// lot count". Quantities can be adjusted down but never fabricated above
// the number of contributing lots.
type LineInput struct {
	ProductName string
	Lots        []string
	Quantity    int
	UnitPrice   float64
	Discount    float64
}

func (in LineInput) effectiveQuantity() (int, error) {
	if in.Quantity == 0 {
		return len(in.Lots), nil
	}
	if in.Quantity < 0 {
		return 0, ErrQuantityNotPositive
	}
	if in.Quantity > len(in.Lots) {
		return 0, fmt.Errorf("%w: %d > %d", ErrQuantityExceedsLots, in.Quantity, len(in.Lots))
	}
	return in.Quantity, nil
}

// LineBuilder converts line inputs into ERP-ready lines, resolving each
// product reference through the gateway.
type LineBuilder struct {
	gateway erp.Gateway
	log     *zap.Logger
}

// NewLineBuilder creates a line builder.
func NewLineBuilder(gateway erp.Gateway, log *zap.Logger) *LineBuilder {
	if log == nil {
		log = zap.NewNop()
	}
	return &LineBuilder{gateway: gateway, log: log.Named("creditnote")}
}

// BuildLines builds lines for one vendor's inputs. Inputs without lots
// are skipped; inputs whose product cannot be resolved by a name-contains
// search are dropped silently so the rest of the batch continues. An
// invalid quantity override aborts with an error: it is caller input, not
// backend state.
func (b *LineBuilder) BuildLines(ctx context.Context, companyID int64, inputs []LineInput) ([]Line, error) {
	lines := make([]Line, 0, len(inputs))
	for _, in := range inputs {
		if len(in.Lots) == 0 {
			continue
		}
		qty, err := in.effectiveQuantity()
		if err != nil {
			return nil, err
		}

		productIDs, err := b.gateway.Search(ctx, erp.ModelProductProduct,
			erp.Where(erp.ILike("name", in.ProductName)).CompanyOrGlobal(companyID),
			&erp.Options{Limit: 1})
		if err != nil {
			return nil, fmt.Errorf("creditnote: product lookup: %w", err)
		}
		if len(productIDs) == 0 {
			b.log.Warn("product not found, line dropped",
				zap.String("product", in.ProductName))
			continue
		}

		lines = append(lines, Line{
			ProductID:   productIDs[0],
			Quantity:    qty,
			UnitPrice:   in.UnitPrice,
			Discount:    in.Discount,
			Description: lineDescription(in.Lots),
		})
	}
	return lines, nil
}
