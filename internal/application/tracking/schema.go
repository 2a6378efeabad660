package tracking

import (
	"strings"
	"unicode"

	"github.com/rastreo/backend/internal/domain/tracking"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AliasTable maps a logical field to the literal column names accepted for it,
// in preference order
type AliasTable map[tracking.Field][]string

// DefaultOrderAliases returns the column aliases of the orders table
func DefaultOrderAliases() AliasTable {
	return AliasTable{
		tracking.FieldID:          {"Id", "Ticket"},
		tracking.FieldCustomerRef: {"Cliente", "IdCliente"},
		tracking.FieldCustomerKey: {"IdCliente", "Cliente"},
		tracking.FieldStatus:      {"Estado", "Estado Orden"},
		tracking.FieldLoadedAt:    {"Cargado", "Hora"},
		tracking.FieldPackagedAt:  {"Fecha empaquetado", "Fecha empacado", "Empaquetado"},
		tracking.FieldDeliveredAt: {"Fecha entrega", "Entrega"},
		tracking.FieldCourier:     {"Repartidor"},
		tracking.FieldAddress:     {"Direccion", "Dirección"},
	}
}

// DefaultCustomerAliases returns the column aliases of the customers table
func DefaultCustomerAliases() AliasTable {
	return AliasTable{
		tracking.FieldCustomerID:   {"IdCliente", "ID"},
		tracking.FieldCustomerName: {"Nombre", "Cliente"},
	}
}

// Required fields per table. Missing any of them is a schema mismatch.
var (
	RequiredOrderFields    = []tracking.Field{tracking.FieldID, tracking.FieldCustomerRef, tracking.FieldStatus}
	RequiredCustomerFields = []tracking.Field{tracking.FieldCustomerID, tracking.FieldCustomerName}
)

// Extend returns a copy of the table where each configured field lists the
// configured names first, followed by the existing aliases not already listed.
func (a AliasTable) Extend(overrides map[string][]string) AliasTable {
	out := make(AliasTable, len(a)+len(overrides))
	for f, names := range a {
		out[f] = append([]string(nil), names...)
	}
	for key, names := range overrides {
		f := tracking.Field(strings.ToLower(strings.TrimSpace(key)))
		merged := make([]string, 0, len(names)+len(out[f]))
		seen := make(map[string]struct{}, len(names)+len(out[f]))
		for _, n := range append(append([]string(nil), names...), out[f]...) {
			if _, dup := seen[n]; dup || strings.TrimSpace(n) == "" {
				continue
			}
			seen[n] = struct{}{}
			merged = append(merged, n)
		}
		out[f] = merged
	}
	return out
}

// CanonicalHeader folds case, strips accents and collapses whitespace so that
// "Dirección", "direccion" and " DIRECCION " compare equal.
func CanonicalHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return strings.Join(strings.Fields(cases.Fold().String(stripped)), " ")
}

// ResolveColumns maps each logical field of the alias table to the literal
// column of the table that carries it. Exact names win over canonical matches.
func (a AliasTable) ResolveColumns(columns []string) map[tracking.Field]string {
	exact := make(map[string]struct{}, len(columns))
	canonical := make(map[string]string, len(columns))
	for _, c := range columns {
		exact[c] = struct{}{}
		key := CanonicalHeader(c)
		if _, taken := canonical[key]; !taken {
			canonical[key] = c
		}
	}

	resolved := make(map[tracking.Field]string, len(a))
	for field, aliases := range a {
		if col, ok := matchExact(aliases, exact); ok {
			resolved[field] = col
			continue
		}
		for _, alias := range aliases {
			if col, ok := canonical[CanonicalHeader(alias)]; ok {
				resolved[field] = col
				break
			}
		}
	}
	return resolved
}

func matchExact(aliases []string, exact map[string]struct{}) (string, bool) {
	for _, alias := range aliases {
		if _, ok := exact[alias]; ok {
			return alias, true
		}
	}
	return "", false
}

func missingFields(resolved map[tracking.Field]string, required []tracking.Field) []tracking.Field {
	var missing []tracking.Field
	for _, f := range required {
		if _, ok := resolved[f]; !ok {
			missing = append(missing, f)
		}
	}
	return missing
}

// SchemaNormalizer converts raw tables to canonical records.
// All column name resolution of the pipeline happens here.
type SchemaNormalizer struct {
	orderAliases    AliasTable
	customerAliases AliasTable
}

// NewSchemaNormalizer creates a normalizer. Nil alias tables fall back to the defaults.
func NewSchemaNormalizer(orderAliases, customerAliases AliasTable) *SchemaNormalizer {
	if orderAliases == nil {
		orderAliases = DefaultOrderAliases()
	}
	if customerAliases == nil {
		customerAliases = DefaultCustomerAliases()
	}
	return &SchemaNormalizer{
		orderAliases:    orderAliases,
		customerAliases: customerAliases,
	}
}

// NormalizeOrders reads the orders table into canonical records.
// Date fields are normalized; absent optional fields stay empty.
func (n *SchemaNormalizer) NormalizeOrders(table *tracking.Table) (tracking.OrderSet, error) {
	cols := n.orderAliases.ResolveColumns(table.Columns)
	if missing := missingFields(cols, RequiredOrderFields); len(missing) > 0 {
		return tracking.OrderSet{Table: table.Name, Columns: cols}, tracking.NewSchemaMismatchError(table.Name, missing)
	}

	text := func(row tracking.Row, f tracking.Field) string {
		col, ok := cols[f]
		if !ok {
			return ""
		}
		return strings.TrimSpace(tracking.CellText(row[col]))
	}
	date := func(row tracking.Row, f tracking.Field) string {
		col, ok := cols[f]
		if !ok {
			return tracking.PendingDate
		}
		return tracking.NormalizeDate(row[col])
	}

	records := make([]tracking.OrderRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, tracking.OrderRecord{
			ID:          text(row, tracking.FieldID),
			CustomerRef: text(row, tracking.FieldCustomerRef),
			CustomerKey: text(row, tracking.FieldCustomerKey),
			Status:      text(row, tracking.FieldStatus),
			LoadedAt:    date(row, tracking.FieldLoadedAt),
			PackagedAt:  date(row, tracking.FieldPackagedAt),
			DeliveredAt: date(row, tracking.FieldDeliveredAt),
			Courier:     text(row, tracking.FieldCourier),
			Address:     text(row, tracking.FieldAddress),
		})
	}

	return tracking.OrderSet{Table: table.Name, Columns: cols, Records: records}, nil
}

// NormalizeCustomers reads the customers table into canonical records
func (n *SchemaNormalizer) NormalizeCustomers(table *tracking.Table) (tracking.CustomerSet, error) {
	cols := n.customerAliases.ResolveColumns(table.Columns)
	if missing := missingFields(cols, RequiredCustomerFields); len(missing) > 0 {
		return tracking.CustomerSet{Table: table.Name, Columns: cols}, tracking.NewSchemaMismatchError(table.Name, missing)
	}

	idCol := cols[tracking.FieldCustomerID]
	nameCol := cols[tracking.FieldCustomerName]
	records := make([]tracking.CustomerRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, tracking.CustomerRecord{
			CustomerID: strings.TrimSpace(tracking.CellText(row[idCol])),
			Name:       strings.TrimSpace(tracking.CellText(row[nameCol])),
		})
	}

	return tracking.CustomerSet{Table: table.Name, Columns: cols, Records: records}, nil
}
