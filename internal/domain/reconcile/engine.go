package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/creditnote/backend/internal/domain/erp"
)

// ErrNoMoveLines signals that none of the supplied lots exist in the
// backend for the company scope. It is a "nothing to reconcile" outcome,
// not a transport failure; callers may retry with different lots.
var ErrNoMoveLines = errors.New("reconcile: no stock move lines found for the given lots")

// Result is the outcome of one reconciliation run. Groups preserve the
// insertion order of their first-encountered key; Diagnostics lists the
// move lines that were skipped with a reportable reason.
type Result struct {
	Groups      []*Group
	Diagnostics []Diagnostic

	index map[GroupKey]*Group
}

// Group returns the group for the key, or nil.
func (r *Result) Group(key GroupKey) *Group {
	return r.index[key]
}

// Vendors returns the distinct vendor names in first-encounter order.
func (r *Result) Vendors() []string {
	seen := make(map[string]struct{})
	vendors := make([]string, 0)
	for _, g := range r.Groups {
		if _, ok := seen[g.Key.Vendor]; ok {
			continue
		}
		seen[g.Key.Vendor] = struct{}{}
		vendors = append(vendors, g.Key.Vendor)
	}
	return vendors
}

// GroupsForVendor returns the groups belonging to one vendor, in order.
func (r *Result) GroupsForVendor(vendor string) []*Group {
	groups := make([]*Group, 0)
	for _, g := range r.Groups {
		if g.Key.Vendor == vendor {
			groups = append(groups, g)
		}
	}
	return groups
}

func (r *Result) upsert(key GroupKey) *Group {
	if g, ok := r.index[key]; ok {
		return g
	}
	g := newGroup(key)
	r.index[key] = g
	r.Groups = append(r.Groups, g)
	return g
}

// Engine resolves lot identifiers to vendor/purchase-order groups by
// joining four backend record types. The association of a product with a
// purchase-order line is a first-match substring heuristic inherited
// from the upstream workflow: when several lines share overlapping
// descriptions it can attribute the wrong price, and that behavior is
// kept as-is for compatibility.
type Engine struct {
	gateway         erp.Gateway
	excludedVendors map[string]struct{}
	log             *zap.Logger
}

// NewEngine creates an engine. excludedVendors lists partner display
// names (the company's own retail entities) whose pickings must never
// reach the output.
func NewEngine(gateway erp.Gateway, excludedVendors []string, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	excluded := make(map[string]struct{}, len(excludedVendors))
	for _, name := range excludedVendors {
		excluded[name] = struct{}{}
	}
	return &Engine{
		gateway:         gateway,
		excludedVendors: excluded,
		log:             log.Named("reconcile"),
	}
}

// poLines caches the purchase-order line set fetched for one PO name
// within a single run. found=false records a missed lookup so repeated
// move lines of the same PO still emit per-row diagnostics without
// another round trip.
type poLines struct {
	found bool
	lines []erp.Record
}

// Reconcile resolves the given lot identifiers (already normalized:
// trimmed, upper-cased) within the company scope. Lookup failures on
// individual rows are collected as diagnostics; only gateway faults
// abort the run.
func (e *Engine) Reconcile(ctx context.Context, lots []string, companyID int64) (*Result, error) {
	moveLines, err := e.gateway.SearchRead(ctx, erp.ModelStockMoveLine,
		erp.Where(
			erp.In("lot_name", lots),
			erp.Eq("company_id", companyID),
		),
		&erp.Options{Fields: []string{"lot_name", "picking_id", "product_id"}})
	if err != nil {
		return nil, fmt.Errorf("reconcile: move line lookup: %w", err)
	}
	if len(moveLines) == 0 {
		return nil, ErrNoMoveLines
	}

	pickingMap, productNames, err := e.fetchReferences(ctx, moveLines)
	if err != nil {
		return nil, err
	}

	result := &Result{index: make(map[GroupKey]*Group)}
	poCache := make(map[string]poLines)

	for _, ml := range moveLines {
		lot := ml.Str("lot_name")

		pickingRef, ok := ml.Ref("picking_id")
		if !ok {
			continue // malformed move line, dropped silently
		}
		picking, ok := pickingMap[pickingRef.ID]
		if !ok {
			continue
		}
		partner, ok := picking.Ref("partner_id")
		if !ok {
			continue
		}
		if _, excluded := e.excludedVendors[partner.Name]; excluded {
			continue // company-internal entity, silently dropped
		}

		productName := SKUNotAvailable
		if productRef, ok := ml.Ref("product_id"); ok {
			if name, ok := productNames[productRef.ID]; ok {
				productName = name
			}
		}
		sku := ExtractSKU(productName)
		poName := picking.Str("origin")

		lines, err := e.purchaseOrderLines(ctx, poName, poCache)
		if err != nil {
			return nil, err
		}
		if lines == nil {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Reason:        SkipPurchaseOrderNotFound,
				Lot:           lot,
				Picking:       picking.Str("name"),
				PurchaseOrder: poName,
			})
			e.log.Warn("purchase order not found",
				zap.String("purchase_order", poName),
				zap.String("picking", picking.Str("name")))
			continue
		}

		matched := false
		for _, line := range lines {
			lineDesc := ""
			if tmpl, ok := line.Ref("product_template_id"); ok {
				lineDesc = tmpl.Name
			}
			// First match wins; no scoring, no disambiguation.
			if strings.Contains(lineDesc, sku) ||
				strings.Contains(strings.ToLower(lineDesc), strings.ToLower(productName)) {
				key := GroupKey{PurchaseOrder: poName, LineDescription: lineDesc, Vendor: partner.Name}
				group := result.upsert(key)
				group.addLot(lot)
				group.UnitPrice = line.Float("price_unit")
				group.Discount = line.Float("discount")
				matched = true
				break
			}
		}
		if !matched {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Reason:  SkipNoMatchingLine,
				Lot:     lot,
				Product: productName,
			})
			e.log.Warn("no matching purchase order line",
				zap.String("product", productName),
				zap.String("lot", lot))
		}
	}

	return result, nil
}

// fetchReferences bulk-reads the pickings and products referenced by the
// move lines, one round trip per record type.
func (e *Engine) fetchReferences(ctx context.Context, moveLines []erp.Record) (map[int64]erp.Record, map[int64]string, error) {
	pickingIDs := distinctRefIDs(moveLines, "picking_id")
	productIDs := distinctRefIDs(moveLines, "product_id")

	pickingMap := make(map[int64]erp.Record, len(pickingIDs))
	if len(pickingIDs) > 0 {
		pickings, err := e.gateway.Read(ctx, erp.ModelStockPicking, pickingIDs,
			[]string{"id", "name", "origin", "partner_id"})
		if err != nil {
			return nil, nil, fmt.Errorf("reconcile: picking lookup: %w", err)
		}
		for _, p := range pickings {
			pickingMap[p.Int("id")] = p
		}
	}

	productNames := make(map[int64]string, len(productIDs))
	if len(productIDs) > 0 {
		products, err := e.gateway.Read(ctx, erp.ModelProductProduct, productIDs,
			[]string{"id", "name"})
		if err != nil {
			return nil, nil, fmt.Errorf("reconcile: product lookup: %w", err)
		}
		for _, p := range products {
			productNames[p.Int("id")] = p.Str("name")
		}
	}

	return pickingMap, productNames, nil
}

// purchaseOrderLines resolves the line records of the purchase order with
// the given name. Returns nil lines (no error) when the order does not
// exist. Lookups are deduplicated per PO name within the run; the data
// is idempotent per name, so the cache cannot change observable output.
func (e *Engine) purchaseOrderLines(ctx context.Context, poName string, cache map[string]poLines) ([]erp.Record, error) {
	if entry, ok := cache[poName]; ok {
		if !entry.found {
			return nil, nil
		}
		return entry.lines, nil
	}

	poIDs, err := e.gateway.Search(ctx, erp.ModelPurchaseOrder,
		erp.Where(erp.Eq("name", poName)), &erp.Options{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("reconcile: purchase order lookup: %w", err)
	}
	if len(poIDs) == 0 {
		cache[poName] = poLines{found: false}
		return nil, nil
	}

	lineIDs, err := e.gateway.Search(ctx, erp.ModelPurchaseOrderLine,
		erp.Where(erp.Eq("order_id", poIDs[0])), nil)
	if err != nil {
		return nil, fmt.Errorf("reconcile: purchase order line lookup: %w", err)
	}
	lines, err := e.gateway.Read(ctx, erp.ModelPurchaseOrderLine, lineIDs,
		[]string{"product_template_id", "price_unit", "discount"})
	if err != nil {
		return nil, fmt.Errorf("reconcile: purchase order line read: %w", err)
	}

	cache[poName] = poLines{found: true, lines: lines}
	return lines, nil
}

func distinctRefIDs(records []erp.Record, field string) []int64 {
	seen := make(map[int64]struct{})
	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ref, ok := r.Ref(field)
		if !ok {
			continue
		}
		if _, dup := seen[ref.ID]; dup {
			continue
		}
		seen[ref.ID] = struct{}{}
		ids = append(ids, ref.ID)
	}
	return ids
}
