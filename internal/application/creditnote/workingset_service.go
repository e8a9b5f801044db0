package creditnote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/history"
	"github.com/creditnote/backend/internal/infrastructure/session"
)

var (
	// ErrEmptyWorkingSet means the operator has no lines staged.
	ErrEmptyWorkingSet = errors.New("creditnote: working set is empty")
	// ErrVendorMismatch rejects adding a line for a different vendor.
	// A credit note targets exactly one vendor.
	ErrVendorMismatch = errors.New("creditnote: working set holds lines for another vendor")
	// ErrLineNotFound means no staged line matched the given key.
	ErrLineNotFound = errors.New("creditnote: line not found in working set")
)

// WorkingSetService manages the manual flow: an operator stages
// reconciliation groups one by one, adjusts quantities, and submits a
// single credit note for the staged lines. State lives in the session
// store keyed by operator name, so it survives across requests and
// across instances when Redis backs the store.
type WorkingSetService struct {
	store     session.Store
	builder   *creditnote.LineBuilder
	submitter *creditnote.Submitter
	companies *CompanyResolver
	history   history.Repository
	defaults  Defaults
	ttl       time.Duration
	log       *zap.Logger
}

// NewWorkingSetService creates a working-set service. The history
// repository may be nil.
func NewWorkingSetService(
	store session.Store,
	builder *creditnote.LineBuilder,
	submitter *creditnote.Submitter,
	companies *CompanyResolver,
	historyRepo history.Repository,
	defaults Defaults,
	ttl time.Duration,
	log *zap.Logger,
) *WorkingSetService {
	if log == nil {
		log = zap.NewNop()
	}
	if defaults.Reference == "" {
		defaults.Reference = "Damage"
	}
	if defaults.DueDays <= 0 {
		defaults.DueDays = 30
	}
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &WorkingSetService{
		store:     store,
		builder:   builder,
		submitter: submitter,
		companies: companies,
		history:   historyRepo,
		defaults:  defaults,
		ttl:       ttl,
		log:       log.Named("workingset"),
	}
}

// Get returns the operator's current working set. A missing set is an
// empty one, not an error.
func (s *WorkingSetService) Get(ctx context.Context, operator string) (*WorkingSetView, error) {
	set, err := s.load(ctx, operator)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Add stages a line for the vendor. The first line fixes the set's
// vendor; a line with the same purchase order and description replaces
// the staged one. Lots are normalized before the quantity bound is
// checked, so duplicates never inflate the allowed quantity.
func (s *WorkingSetService) Add(ctx context.Context, operator, vendor string, line WorkingLine) (*WorkingSetView, error) {
	line.Lots = lotimport.Normalize(line.Lots)
	if len(line.Lots) == 0 {
		return nil, lotimport.ErrNoLots
	}
	if line.Quantity == 0 {
		line.Quantity = len(line.Lots)
	}
	if line.Quantity < 0 {
		return nil, creditnote.ErrQuantityNotPositive
	}
	if line.Quantity > len(line.Lots) {
		return nil, fmt.Errorf("%w: %d > %d", creditnote.ErrQuantityExceedsLots, line.Quantity, len(line.Lots))
	}

	set, err := s.load(ctx, operator)
	if err != nil {
		return nil, err
	}

	if len(set.Lines) == 0 {
		set.Vendor = vendor
	} else if set.Vendor != vendor {
		return nil, fmt.Errorf("%w: have %q, got %q", ErrVendorMismatch, set.Vendor, vendor)
	}

	replaced := false
	for i := range set.Lines {
		if set.Lines[i].PurchaseOrder == line.PurchaseOrder && set.Lines[i].Description == line.Description {
			set.Lines[i] = line
			replaced = true
			break
		}
	}
	if !replaced {
		set.Lines = append(set.Lines, line)
	}

	if err := s.save(ctx, operator, set); err != nil {
		return nil, err
	}
	return set, nil
}

// Remove drops the staged line matching the purchase order and
// description. Removing the last line clears the vendor.
func (s *WorkingSetService) Remove(ctx context.Context, operator, purchaseOrder, description string) (*WorkingSetView, error) {
	set, err := s.load(ctx, operator)
	if err != nil {
		return nil, err
	}

	kept := set.Lines[:0]
	found := false
	for _, l := range set.Lines {
		if l.PurchaseOrder == purchaseOrder && l.Description == description {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	if !found {
		return nil, ErrLineNotFound
	}
	set.Lines = kept
	if len(set.Lines) == 0 {
		set.Vendor = ""
	}

	if err := s.save(ctx, operator, set); err != nil {
		return nil, err
	}
	return set, nil
}

// AdjustQuantity overrides a staged line's quantity. The override must
// be positive and cannot exceed the line's lot count.
func (s *WorkingSetService) AdjustQuantity(ctx context.Context, operator, purchaseOrder, description string, quantity int) (*WorkingSetView, error) {
	set, err := s.load(ctx, operator)
	if err != nil {
		return nil, err
	}

	for i := range set.Lines {
		if set.Lines[i].PurchaseOrder != purchaseOrder || set.Lines[i].Description != description {
			continue
		}
		if quantity <= 0 {
			return nil, creditnote.ErrQuantityNotPositive
		}
		if quantity > len(set.Lines[i].Lots) {
			return nil, fmt.Errorf("%w: %d > %d", creditnote.ErrQuantityExceedsLots, quantity, len(set.Lines[i].Lots))
		}
		set.Lines[i].Quantity = quantity
		if err := s.save(ctx, operator, set); err != nil {
			return nil, err
		}
		return set, nil
	}
	return nil, ErrLineNotFound
}

// Clear discards the operator's working set.
func (s *WorkingSetService) Clear(ctx context.Context, operator string) error {
	return s.store.Delete(ctx, operator)
}

// Submit creates a credit note from the staged lines and clears the
// working set on success.
func (s *WorkingSetService) Submit(ctx context.Context, operator string, input SubmitInput) (*VendorResult, error) {
	set, err := s.load(ctx, operator)
	if err != nil {
		return nil, err
	}
	if len(set.Lines) == 0 {
		return nil, ErrEmptyWorkingSet
	}

	companyID, err := s.companies.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	issueDate := input.IssueDate
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	dueDate := input.DueDate
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, s.defaults.DueDays)
	}
	reference := input.Reference
	if reference == "" {
		reference = s.defaults.Reference
	}

	inputs := make([]creditnote.LineInput, 0, len(set.Lines))
	lotCount := 0
	for _, l := range set.Lines {
		inputs = append(inputs, creditnote.LineInput{
			ProductName: l.Description,
			Lots:        l.Lots,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Discount:    l.Discount,
		})
		lotCount += len(l.Lots)
	}

	lines, err := s.builder.BuildLines(ctx, companyID, inputs)
	if err != nil {
		return nil, err
	}

	noteID, err := s.submitter.Submit(ctx, creditnote.SubmitRequest{
		VendorName: set.Vendor,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Reference:  reference,
		CompanyID:  companyID,
		Lines:      lines,
	})
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}

	if s.history != nil {
		submission := history.NewSubmission(noteID, set.Vendor, companyID, issueDate, dueDate,
			reference, len(lines), lotCount, total, operator)
		if err := s.history.Save(ctx, submission); err != nil {
			s.log.Warn("failed to record submission",
				zap.Int64("credit_note_id", noteID),
				zap.Error(err))
		}
	}

	if err := s.store.Delete(ctx, operator); err != nil {
		s.log.Warn("failed to clear working set after submit",
			zap.String("operator", operator),
			zap.Error(err))
	}

	s.log.Info("credit note created",
		zap.Int64("credit_note_id", noteID),
		zap.String("vendor", set.Vendor),
		zap.String("operator", operator))

	return &VendorResult{
		Vendor:       set.Vendor,
		CreditNoteID: noteID,
		LineCount:    len(lines),
		LotCount:     lotCount,
		Total:        total.StringFixed(2),
	}, nil
}

func (s *WorkingSetService) load(ctx context.Context, operator string) (*WorkingSetView, error) {
	raw, err := s.store.Get(ctx, operator)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return &WorkingSetView{Lines: make([]WorkingLine, 0)}, nil
		}
		return nil, fmt.Errorf("failed to load working set: %w", err)
	}

	var set WorkingSetView
	if err := json.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to decode working set: %w", err)
	}
	return &set, nil
}

func (s *WorkingSetService) save(ctx context.Context, operator string, set *WorkingSetView) error {
	raw, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to encode working set: %w", err)
	}
	if err := s.store.Put(ctx, operator, raw, s.ttl); err != nil {
		return fmt.Errorf("failed to save working set: %w", err)
	}
	return nil
}
