package tracking

import (
	"github.com/rastreo/backend/internal/domain/tracking"
)

// JoinKeys names the logical fields matched between orders and customers
type JoinKeys struct {
	Order    tracking.Field
	Customer tracking.Field
}

// DefaultJoinKeys joins the order customer key onto the customer identifier
func DefaultJoinKeys() JoinKeys {
	return JoinKeys{
		Order:    tracking.FieldCustomerKey,
		Customer: tracking.FieldCustomerID,
	}
}

// JoinResult is the outcome of the left join.
// When Degraded is set the orders carry no customer name and Cause says why.
type JoinResult struct {
	Orders   []tracking.EnrichedOrder
	Degraded bool
	Cause    error
}

// Join left-joins customer names onto orders. The first customer matching a
// key wins. It never fails: a customers error or a missing key column
// degrades the result to the orders alone.
func Join(orders tracking.OrderSet, customers tracking.CustomerSet, customersErr error, keys JoinKeys) JoinResult {
	switch {
	case customersErr != nil:
		return degraded(orders, customersErr)
	case !orders.Has(keys.Order):
		return degraded(orders, tracking.NewSchemaMismatchError(orders.Table, []tracking.Field{keys.Order}))
	case !customers.Has(keys.Customer):
		return degraded(orders, tracking.NewSchemaMismatchError(customers.Table, []tracking.Field{keys.Customer}))
	}

	names := make(map[string]string, len(customers.Records))
	for _, c := range customers.Records {
		key := c.Value(keys.Customer)
		if key == "" {
			continue
		}
		if _, exists := names[key]; !exists {
			names[key] = c.Name
		}
	}

	enriched := make([]tracking.EnrichedOrder, 0, len(orders.Records))
	for _, o := range orders.Records {
		enriched = append(enriched, tracking.NewEnrichedOrder(o, names[o.Value(keys.Order)]))
	}
	return JoinResult{Orders: enriched}
}

func degraded(orders tracking.OrderSet, cause error) JoinResult {
	enriched := make([]tracking.EnrichedOrder, 0, len(orders.Records))
	for _, o := range orders.Records {
		enriched = append(enriched, tracking.NewEnrichedOrder(o, ""))
	}
	return JoinResult{Orders: enriched, Degraded: true, Cause: cause}
}
