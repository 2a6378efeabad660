package tracking

import "strings"

// Field is a logical column of the canonical schema
type Field string

// Order fields
const (
	FieldID          Field = "id"
	FieldCustomerRef Field = "customer_ref"
	FieldCustomerKey Field = "customer_key"
	FieldStatus      Field = "status"
	FieldLoadedAt    Field = "loaded_at"
	FieldPackagedAt  Field = "packaged_at"
	FieldDeliveredAt Field = "delivered_at"
	FieldCourier     Field = "courier"
	FieldAddress     Field = "address"
)

// Customer fields
const (
	FieldCustomerID   Field = "customer_id"
	FieldCustomerName Field = "name"
)

// UnknownCustomerName is shown when neither a joined name nor a customer
// reference is available for an order
const UnknownCustomerName = "Cliente sin registrar"

// OrderRecord is one row of the orders table in canonical form.
// Date fields hold normalized tokens (see NormalizeDate).
type OrderRecord struct {
	ID          string
	CustomerRef string // display form of the customer reference
	CustomerKey string // join form of the customer reference
	Status      string // raw status literal as stored in the source
	LoadedAt    string
	PackagedAt  string
	DeliveredAt string
	Courier     string
	Address     string
}

// Value returns the textual value of a logical field
func (o OrderRecord) Value(f Field) string {
	switch f {
	case FieldID:
		return o.ID
	case FieldCustomerRef:
		return o.CustomerRef
	case FieldCustomerKey:
		return o.CustomerKey
	case FieldStatus:
		return o.Status
	case FieldLoadedAt:
		return o.LoadedAt
	case FieldPackagedAt:
		return o.PackagedAt
	case FieldDeliveredAt:
		return o.DeliveredAt
	case FieldCourier:
		return o.Courier
	case FieldAddress:
		return o.Address
	}
	return ""
}

// State parses the raw status literal
func (o OrderRecord) State() Status {
	return ParseStatus(o.Status)
}

// CustomerRecord is one row of the customers table in canonical form
type CustomerRecord struct {
	CustomerID string
	Name       string
}

// Value returns the textual value of a logical field
func (c CustomerRecord) Value(f Field) string {
	switch f {
	case FieldCustomerID:
		return c.CustomerID
	case FieldCustomerName:
		return c.Name
	}
	return ""
}

// OrderSet is the normalized orders table.
// Columns maps each resolved logical field to the literal column it was read from.
type OrderSet struct {
	Table   string
	Columns map[Field]string
	Records []OrderRecord
}

// Has reports whether the logical field was found in the source table
func (s OrderSet) Has(f Field) bool {
	_, ok := s.Columns[f]
	return ok
}

// CustomerSet is the normalized customers table
type CustomerSet struct {
	Table   string
	Columns map[Field]string
	Records []CustomerRecord
}

// Has reports whether the logical field was found in the source table
func (s CustomerSet) Has(f Field) bool {
	_, ok := s.Columns[f]
	return ok
}

// EnrichedOrder is an order with its customer display name resolved
type EnrichedOrder struct {
	OrderRecord
	CustomerName string // joined name, empty when the join found nothing
	DisplayName  string
}

// NewEnrichedOrder builds an enriched order and resolves its display name
func NewEnrichedOrder(order OrderRecord, customerName string) EnrichedOrder {
	return EnrichedOrder{
		OrderRecord:  order,
		CustomerName: customerName,
		DisplayName:  ResolveDisplayName(customerName, order.CustomerRef),
	}
}

// ResolveDisplayName applies the fallback chain joined name -> customer
// reference -> UnknownCustomerName. The result is never empty.
func ResolveDisplayName(customerName, customerRef string) string {
	if name := strings.TrimSpace(customerName); name != "" && !isMissingLiteral(name) {
		return name
	}
	if ref := strings.TrimSpace(customerRef); ref != "" && !isMissingLiteral(ref) {
		return ref
	}
	return UnknownCustomerName
}
