package creditnote

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/history"
	"github.com/creditnote/backend/internal/domain/reconcile"
)

// Defaults holds the fallback document header values.
type Defaults struct {
	Reference string
	DueDays   int
}

// BulkService runs the lot-to-credit-note pipeline end to end: look up
// the lots, reconcile them to purchase-order lines, and create one
// credit note per vendor. Vendors are processed independently; a
// failure for one vendor is reported and the run continues.
type BulkService struct {
	engine    *reconcile.Engine
	builder   *creditnote.LineBuilder
	submitter *creditnote.Submitter
	companies *CompanyResolver
	history   history.Repository
	defaults  Defaults
	log       *zap.Logger
}

// NewBulkService creates a bulk service. The history repository may be
// nil; submissions are then created without a local audit record.
func NewBulkService(
	engine *reconcile.Engine,
	builder *creditnote.LineBuilder,
	submitter *creditnote.Submitter,
	companies *CompanyResolver,
	historyRepo history.Repository,
	defaults Defaults,
	log *zap.Logger,
) *BulkService {
	if log == nil {
		log = zap.NewNop()
	}
	if defaults.Reference == "" {
		defaults.Reference = "Damage"
	}
	if defaults.DueDays <= 0 {
		defaults.DueDays = 30
	}
	return &BulkService{
		engine:    engine,
		builder:   builder,
		submitter: submitter,
		companies: companies,
		history:   historyRepo,
		defaults:  defaults,
		log:       log.Named("bulk"),
	}
}

// Lookup reconciles the lots and returns the grouped result without
// creating anything. Lots are normalized here so callers may pass raw
// input; the engine requires trimmed, upper-cased, deduplicated lots.
func (s *BulkService) Lookup(ctx context.Context, lots []string) (*LookupResult, error) {
	lots = lotimport.Normalize(lots)
	if len(lots) == 0 {
		return nil, lotimport.ErrNoLots
	}

	companyID, err := s.companies.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Reconcile(ctx, lots, companyID)
	if err != nil {
		return nil, err
	}

	return newLookupResult(companyID, result), nil
}

// CreateBulk reconciles the lots and creates one credit note per
// vendor found in the result.
func (s *BulkService) CreateBulk(ctx context.Context, req BulkCreateRequest) (*BulkResult, error) {
	lots := lotimport.Normalize(req.Lots)
	if len(lots) == 0 {
		return nil, lotimport.ErrNoLots
	}

	companyID, err := s.companies.Resolve(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Reconcile(ctx, lots, companyID)
	if err != nil {
		return nil, err
	}

	issueDate, dueDate, reference := s.applyDefaults(req.IssueDate, req.DueDate, req.Reference)

	out := &BulkResult{
		CompanyID:   companyID,
		Vendors:     make([]VendorResult, 0),
		Diagnostics: diagnosticViews(result.Diagnostics),
	}
	for _, vendor := range result.Vendors() {
		vr := s.createForVendor(ctx, companyID, vendor, result.GroupsForVendor(vendor),
			issueDate, dueDate, reference, req.CreatedBy)
		out.Vendors = append(out.Vendors, vr)
		if vr.Error == "" {
			out.Created++
		} else {
			out.Failed++
		}
	}
	return out, nil
}

func (s *BulkService) applyDefaults(issueDate, dueDate time.Time, reference string) (time.Time, time.Time, string) {
	if issueDate.IsZero() {
		issueDate = time.Now().UTC()
	}
	if dueDate.IsZero() {
		dueDate = issueDate.AddDate(0, 0, s.defaults.DueDays)
	}
	if reference == "" {
		reference = s.defaults.Reference
	}
	return issueDate, dueDate, reference
}

func (s *BulkService) createForVendor(
	ctx context.Context,
	companyID int64,
	vendor string,
	groups []*reconcile.Group,
	issueDate, dueDate time.Time,
	reference, createdBy string,
) VendorResult {
	inputs := make([]creditnote.LineInput, 0, len(groups))
	lotCount := 0
	for _, g := range groups {
		inputs = append(inputs, creditnote.LineInput{
			ProductName: g.Key.LineDescription,
			Lots:        g.Lots(),
			UnitPrice:   g.UnitPrice,
			Discount:    g.Discount,
		})
		lotCount += g.LotCount()
	}

	lines, err := s.builder.BuildLines(ctx, companyID, inputs)
	if err != nil {
		return VendorResult{Vendor: vendor, Error: err.Error()}
	}

	noteID, err := s.submitter.Submit(ctx, creditnote.SubmitRequest{
		VendorName: vendor,
		IssueDate:  issueDate,
		DueDate:    dueDate,
		Reference:  reference,
		CompanyID:  companyID,
		Lines:      lines,
	})
	if err != nil {
		s.log.Warn("credit note creation failed",
			zap.String("vendor", vendor),
			zap.Error(err))
		return VendorResult{Vendor: vendor, LineCount: len(lines), LotCount: lotCount, Error: err.Error()}
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Total())
	}

	s.recordSubmission(ctx, noteID, vendor, companyID, issueDate, dueDate, reference,
		len(lines), lotCount, total, createdBy)

	s.log.Info("credit note created",
		zap.Int64("credit_note_id", noteID),
		zap.String("vendor", vendor),
		zap.Int("lines", len(lines)),
		zap.Int("lots", lotCount))

	return VendorResult{
		Vendor:       vendor,
		CreditNoteID: noteID,
		LineCount:    len(lines),
		LotCount:     lotCount,
		Total:        total.StringFixed(2),
	}
}

// recordSubmission keeps a local audit record. A failure here never
// fails the run: the document already exists in the backend.
func (s *BulkService) recordSubmission(
	ctx context.Context,
	noteID int64,
	vendor string,
	companyID int64,
	issueDate, dueDate time.Time,
	reference string,
	lineCount, lotCount int,
	total decimal.Decimal,
	createdBy string,
) {
	if s.history == nil {
		return
	}
	submission := history.NewSubmission(noteID, vendor, companyID, issueDate, dueDate,
		reference, lineCount, lotCount, total, createdBy)
	if err := s.history.Save(ctx, submission); err != nil {
		s.log.Warn("failed to record submission",
			zap.Int64("credit_note_id", noteID),
			zap.Error(err))
	}
}
