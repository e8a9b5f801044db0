package reconcile

import "sort"

// GroupKey identifies a reconciliation group: one priced purchase-order
// line for one vendor.
type GroupKey struct {
	PurchaseOrder   string `json:"purchase_order"`
	LineDescription string `json:"line_description"`
	Vendor          string `json:"vendor"`
}

// Group aggregates the lots that resolved to the same purchase-order
// line. UnitPrice and Discount hold the values of the last matching line
// encountered for this key; the merge rule is last-write-wins, never an
// average, so groups are single-priced by construction.
type Group struct {
	Key       GroupKey
	UnitPrice float64
	Discount  float64

	lots map[string]struct{}
}

func newGroup(key GroupKey) *Group {
	return &Group{Key: key, lots: make(map[string]struct{})}
}

// addLot records a contributing lot; duplicates collapse.
func (g *Group) addLot(lot string) {
	g.lots[lot] = struct{}{}
}

// LotCount returns the number of distinct contributing lots.
func (g *Group) LotCount() int {
	return len(g.lots)
}

// Lots returns the contributing lots in lexicographic order.
func (g *Group) Lots() []string {
	lots := make([]string, 0, len(g.lots))
	for lot := range g.lots {
		lots = append(lots, lot)
	}
	sort.Strings(lots)
	return lots
}

// HasLot reports whether the lot contributed to this group.
func (g *Group) HasLot(lot string) bool {
	_, ok := g.lots[lot]
	return ok
}
