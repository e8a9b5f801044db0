package erp

// Domain is a backend search filter: a flat list of conditions in the
// backend's prefix notation. Operators ("|", "&") precede their operands.
type Domain []any

// Condition is a single [field, operator, value] triple.
type Condition []any

// Eq matches records whose field equals value.
func Eq(field string, value any) Condition {
	return Condition{field, "=", value}
}

// In matches records whose field is one of the given values.
func In(field string, values []string) Condition {
	return Condition{field, "in", values}
}

// ILike matches records whose field contains value, case-insensitively.
func ILike(field string, value string) Condition {
	return Condition{field, "ilike", value}
}

// Where builds a domain from conditions joined by the implicit AND.
func Where(conds ...Condition) Domain {
	d := make(Domain, 0, len(conds))
	for _, c := range conds {
		d = append(d, c)
	}
	return d
}

// Or appends a disjunction of two conditions to the domain.
func (d Domain) Or(a, b Condition) Domain {
	return append(d, "|", a, b)
}

// CompanyOrGlobal matches records scoped to the company or to no company
// at all. Many master records (partners, products) are global.
func (d Domain) CompanyOrGlobal(companyID int64) Domain {
	return d.Or(Eq("company_id", companyID), Eq("company_id", false))
}
