package creditnote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/creditnote/backend/internal/application/lotimport"
	"github.com/creditnote/backend/internal/domain/creditnote"
	"github.com/creditnote/backend/internal/domain/erp"
	"github.com/creditnote/backend/internal/domain/history"
	"github.com/creditnote/backend/internal/domain/reconcile"
)

const testCompanyID = int64(3)

func newBulkService(gw *MockGateway, historyRepo history.Repository) *BulkService {
	return NewBulkService(
		reconcile.NewEngine(gw, nil, nil),
		creditnote.NewLineBuilder(gw, nil),
		creditnote.NewSubmitter(gw, "Vendor Bills", nil),
		NewCompanyResolver(gw, "Main Company"),
		historyRepo,
		Defaults{Reference: "Damage", DueDays: 30},
		nil,
	)
}

func stubCompany(gw *MockGateway) {
	gw.On("Search", mock.Anything, erp.ModelResCompany, mock.Anything, mock.Anything).
		Return([]int64{testCompanyID}, nil)
}

// stubReconcileChain wires two vendors: lots L1 and L2 resolve to an
// Acme purchase-order line, L3 to a Globex one.
func stubReconcileChain(gw *MockGateway) {
	gw.On("SearchRead", mock.Anything, erp.ModelStockMoveLine, mock.Anything, mock.Anything).
		Return([]erp.Record{
			{"lot_name": "L1", "picking_id": many2one(10, "PICK10"), "product_id": many2one(100, "Widget WGT-1")},
			{"lot_name": "L2", "picking_id": many2one(10, "PICK10"), "product_id": many2one(100, "Widget WGT-1")},
			{"lot_name": "L3", "picking_id": many2one(11, "PICK11"), "product_id": many2one(200, "Gadget GDT-2")},
		}, nil)

	gw.On("Read", mock.Anything, erp.ModelStockPicking, mock.Anything, mock.Anything).
		Return([]erp.Record{
			{"id": float64(10), "name": "PICK10", "origin": "PO100", "partner_id": many2one(5, "Acme Supplies")},
			{"id": float64(11), "name": "PICK11", "origin": "PO200", "partner_id": many2one(6, "Globex")},
		}, nil)

	gw.On("Read", mock.Anything, erp.ModelProductProduct, mock.Anything, mock.Anything).
		Return([]erp.Record{
			{"id": float64(100), "name": "Widget WGT-1"},
			{"id": float64(200), "name": "Gadget GDT-2"},
		}, nil)

	gw.On("Search", mock.Anything, erp.ModelPurchaseOrder,
		erp.Where(erp.Eq("name", "PO100")), &erp.Options{Limit: 1}).
		Return([]int64{40}, nil)
	gw.On("Search", mock.Anything, erp.ModelPurchaseOrderLine,
		erp.Where(erp.Eq("order_id", int64(40))), (*erp.Options)(nil)).
		Return([]int64{41}, nil)
	gw.On("Read", mock.Anything, erp.ModelPurchaseOrderLine, []int64{41}, mock.Anything).
		Return([]erp.Record{
			{"product_template_id": many2one(300, "WGT-1 Widget variant"), "price_unit": float64(500), "discount": float64(10)},
		}, nil)

	gw.On("Search", mock.Anything, erp.ModelPurchaseOrder,
		erp.Where(erp.Eq("name", "PO200")), &erp.Options{Limit: 1}).
		Return([]int64{50}, nil)
	gw.On("Search", mock.Anything, erp.ModelPurchaseOrderLine,
		erp.Where(erp.Eq("order_id", int64(50))), (*erp.Options)(nil)).
		Return([]int64{51}, nil)
	gw.On("Read", mock.Anything, erp.ModelPurchaseOrderLine, []int64{51}, mock.Anything).
		Return([]erp.Record{
			{"product_template_id": many2one(400, "GDT-2 Gadget"), "price_unit": float64(200), "discount": float64(0)},
		}, nil)
}

func stubProductResolution(gw *MockGateway) {
	gw.On("Search", mock.Anything, erp.ModelProductProduct,
		erp.Where(erp.ILike("name", "WGT-1 Widget variant")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{100}, nil)
	gw.On("Search", mock.Anything, erp.ModelProductProduct,
		erp.Where(erp.ILike("name", "GDT-2 Gadget")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{200}, nil)
}

func TestCompanyResolver_CachesLookup(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Search", mock.Anything, erp.ModelResCompany,
		erp.Where(erp.Eq("name", "Main Company")), &erp.Options{Limit: 1}).
		Return([]int64{testCompanyID}, nil).Once()

	resolver := NewCompanyResolver(gw, "Main Company")
	ctx := context.Background()

	id, err := resolver.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCompanyID, id)

	id, err = resolver.Resolve(ctx)
	require.NoError(t, err)
	assert.Equal(t, testCompanyID, id)

	gw.AssertExpectations(t)
}

func TestCompanyResolver_NotFound(t *testing.T) {
	gw := new(MockGateway)
	gw.On("Search", mock.Anything, erp.ModelResCompany, mock.Anything, mock.Anything).
		Return([]int64{}, nil)

	resolver := NewCompanyResolver(gw, "Ghost Co")
	_, err := resolver.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestBulkService_Lookup(t *testing.T) {
	gw := new(MockGateway)
	stubCompany(gw)
	stubReconcileChain(gw)

	svc := newBulkService(gw, nil)

	out, err := svc.Lookup(context.Background(), []string{"L1", "L2", "L3"})
	require.NoError(t, err)

	assert.Equal(t, testCompanyID, out.CompanyID)
	assert.Equal(t, []string{"Acme Supplies", "Globex"}, out.Vendors)
	require.Len(t, out.Groups, 2)

	acme := out.Groups[0]
	assert.Equal(t, "PO100", acme.PurchaseOrder)
	assert.Equal(t, "WGT-1 Widget variant", acme.LineDescription)
	assert.Equal(t, []string{"L1", "L2"}, acme.Lots)
	assert.Equal(t, 2, acme.Quantity)
	assert.Equal(t, 500.0, acme.UnitPrice)
	assert.Equal(t, 10.0, acme.Discount)

	assert.Empty(t, out.Diagnostics)
}

func TestBulkService_Lookup_NormalizesLots(t *testing.T) {
	gw := new(MockGateway)
	stubCompany(gw)

	// Only the normalized lot list may reach the backend filter.
	gw.On("SearchRead", mock.Anything, erp.ModelStockMoveLine,
		erp.Where(
			erp.In("lot_name", []string{"L1", "L2", "L3"}),
			erp.Eq("company_id", testCompanyID),
		), mock.Anything).
		Return([]erp.Record{}, nil).Once()

	svc := newBulkService(gw, nil)

	_, err := svc.Lookup(context.Background(), []string{" l1 ", "L2", "l2", "", "l3"})
	assert.ErrorIs(t, err, reconcile.ErrNoMoveLines)
	gw.AssertExpectations(t)
}

func TestBulkService_Lookup_AllLotsBlank(t *testing.T) {
	gw := new(MockGateway)
	svc := newBulkService(gw, nil)

	_, err := svc.Lookup(context.Background(), []string{"  ", ""})
	assert.ErrorIs(t, err, lotimport.ErrNoLots)
	gw.AssertNotCalled(t, "SearchRead", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkService_CreateBulk_AllLotsBlank(t *testing.T) {
	gw := new(MockGateway)
	svc := newBulkService(gw, nil)

	_, err := svc.CreateBulk(context.Background(), BulkCreateRequest{Lots: []string{" "}})
	assert.ErrorIs(t, err, lotimport.ErrNoLots)
}

func TestBulkService_Lookup_NoMoveLines(t *testing.T) {
	gw := new(MockGateway)
	stubCompany(gw)
	gw.On("SearchRead", mock.Anything, erp.ModelStockMoveLine, mock.Anything, mock.Anything).
		Return([]erp.Record{}, nil)

	svc := newBulkService(gw, nil)

	_, err := svc.Lookup(context.Background(), []string{"UNKNOWN"})
	assert.ErrorIs(t, err, reconcile.ErrNoMoveLines)
}

func TestBulkService_CreateBulk(t *testing.T) {
	gw := new(MockGateway)
	historyRepo := new(MockHistoryRepository)
	stubCompany(gw)
	stubReconcileChain(gw)
	stubProductResolution(gw)

	gw.On("Search", mock.Anything, erp.ModelResPartner,
		erp.Where(erp.Eq("name", "Acme Supplies")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{5}, nil)
	gw.On("Search", mock.Anything, erp.ModelResPartner,
		erp.Where(erp.Eq("name", "Globex")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{6}, nil)
	gw.On("Search", mock.Anything, erp.ModelAccountJournal, mock.Anything, mock.Anything).
		Return([]int64{8}, nil)

	gw.On("Create", mock.Anything, erp.ModelAccountMove, mock.MatchedBy(func(values map[string]any) bool {
		return values["partner_id"] == int64(5) && values["move_type"] == "in_refund"
	})).Return(int64(900), nil)
	gw.On("Create", mock.Anything, erp.ModelAccountMove, mock.MatchedBy(func(values map[string]any) bool {
		return values["partner_id"] == int64(6) && values["move_type"] == "in_refund"
	})).Return(int64(901), nil)

	historyRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *history.Submission) bool {
		return s.Vendor == "Acme Supplies" && s.CreditNoteID == 900
	})).Return(nil).Once()
	historyRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *history.Submission) bool {
		return s.Vendor == "Globex" && s.CreditNoteID == 901
	})).Return(nil).Once()

	svc := newBulkService(gw, historyRepo)

	out, err := svc.CreateBulk(context.Background(), BulkCreateRequest{
		Lots:      []string{"L1", "L2", "L3"},
		IssueDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		CreatedBy: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Created)
	assert.Equal(t, 0, out.Failed)
	require.Len(t, out.Vendors, 2)

	acme := out.Vendors[0]
	assert.Equal(t, "Acme Supplies", acme.Vendor)
	assert.Equal(t, int64(900), acme.CreditNoteID)
	assert.Equal(t, 1, acme.LineCount)
	assert.Equal(t, 2, acme.LotCount)
	assert.Equal(t, "900.00", acme.Total)
	assert.Empty(t, acme.Error)

	globex := out.Vendors[1]
	assert.Equal(t, int64(901), globex.CreditNoteID)
	assert.Equal(t, "200.00", globex.Total)

	historyRepo.AssertExpectations(t)
}

func TestBulkService_CreateBulk_VendorFailureContinues(t *testing.T) {
	gw := new(MockGateway)
	historyRepo := new(MockHistoryRepository)
	stubCompany(gw)
	stubReconcileChain(gw)
	stubProductResolution(gw)

	gw.On("Search", mock.Anything, erp.ModelResPartner,
		erp.Where(erp.Eq("name", "Acme Supplies")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{5}, nil)
	// Globex has no partner record
	gw.On("Search", mock.Anything, erp.ModelResPartner,
		erp.Where(erp.Eq("name", "Globex")).CompanyOrGlobal(testCompanyID),
		&erp.Options{Limit: 1}).
		Return([]int64{}, nil)
	gw.On("Search", mock.Anything, erp.ModelAccountJournal, mock.Anything, mock.Anything).
		Return([]int64{8}, nil)
	gw.On("Create", mock.Anything, erp.ModelAccountMove, mock.Anything).
		Return(int64(900), nil)

	historyRepo.On("Save", mock.Anything, mock.MatchedBy(func(s *history.Submission) bool {
		return s.Vendor == "Acme Supplies"
	})).Return(nil).Once()

	svc := newBulkService(gw, historyRepo)

	out, err := svc.CreateBulk(context.Background(), BulkCreateRequest{
		Lots:      []string{"L1", "L2", "L3"},
		CreatedBy: "alice",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, out.Created)
	assert.Equal(t, 1, out.Failed)
	require.Len(t, out.Vendors, 2)
	assert.Empty(t, out.Vendors[0].Error)
	assert.Contains(t, out.Vendors[1].Error, "vendor not found")

	historyRepo.AssertExpectations(t)
}

func TestBulkService_CreateBulk_HistorySaveFailureDoesNotFailRun(t *testing.T) {
	gw := new(MockGateway)
	historyRepo := new(MockHistoryRepository)
	stubCompany(gw)
	stubReconcileChain(gw)
	stubProductResolution(gw)

	gw.On("Search", mock.Anything, erp.ModelResPartner, mock.Anything, mock.Anything).
		Return([]int64{5}, nil)
	gw.On("Search", mock.Anything, erp.ModelAccountJournal, mock.Anything, mock.Anything).
		Return([]int64{8}, nil)
	gw.On("Create", mock.Anything, erp.ModelAccountMove, mock.Anything).
		Return(int64(900), nil)

	historyRepo.On("Save", mock.Anything, mock.Anything).
		Return(assert.AnError)

	svc := newBulkService(gw, historyRepo)

	out, err := svc.CreateBulk(context.Background(), BulkCreateRequest{
		Lots: []string{"L1", "L2", "L3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Created)
}
