package tracking

// MetricKind identifies a date metric shown for an order
type MetricKind string

const (
	MetricLoadDate          MetricKind = "load_date"
	MetricPackageDate       MetricKind = "package_date"
	MetricDeliveryDate      MetricKind = "delivery_date"
	MetricTentativeDelivery MetricKind = "tentative_delivery"
)

var metricLabels = map[MetricKind]string{
	MetricLoadDate:          "📦 Cargado",
	MetricPackageDate:       "🎁 Empaquetado",
	MetricDeliveryDate:      "🏠 Entrega",
	MetricTentativeDelivery: "🏠 Entrega (Tentativa)",
}

// Label returns the display label of the metric
func (k MetricKind) Label() string {
	return metricLabels[k]
}

// Metric is one labeled date shown to the customer
type Metric struct {
	Kind  MetricKind
	Label string
	Value string
}

// StagePolicy is the display directive for one recognized status
type StagePolicy struct {
	Status    Status
	Narrative string
	Metrics   []MetricKind
}

// stagePolicies is the status -> display table. Adding a status is one entry.
var stagePolicies = map[Status]StagePolicy{
	StatusLoaded: {
		Status:    StatusLoaded,
		Narrative: "Recibimos tu pedido y ya está cargado en nuestro sistema. Pronto comenzaremos a prepararlo.",
		Metrics:   []MetricKind{MetricLoadDate, MetricTentativeDelivery},
	},
	StatusPackaged: {
		Status:    StatusPackaged,
		Narrative: "Tu pedido ya fue empaquetado y está listo para salir a ruta.",
		Metrics:   []MetricKind{MetricLoadDate, MetricPackageDate, MetricTentativeDelivery},
	},
	StatusRouted: {
		Status:    StatusRouted,
		Narrative: "Tu pedido va en camino. El repartidor asignado lo llevará a tu dirección.",
		Metrics:   []MetricKind{MetricLoadDate, MetricPackageDate, MetricDeliveryDate},
	},
	StatusDelivered: {
		Status:    StatusDelivered,
		Narrative: "Tu pedido fue entregado. ¡Gracias por tu compra!",
		Metrics:   []MetricKind{MetricLoadDate, MetricPackageDate, MetricDeliveryDate},
	},
}

// PolicyFor returns the display policy of a status
func PolicyFor(s Status) (StagePolicy, bool) {
	p, ok := stagePolicies[s]
	return p, ok
}

// DisplayPlan is what the presentation layer renders for a found order
type DisplayPlan struct {
	Status      Status
	StatusLabel string // raw literal from the source
	Recognized  bool
	Narrative   string
	Metrics     []Metric
}

// BuildPlan maps an order snapshot to its display plan.
// Unrecognized statuses produce a plan with no narrative and no metrics.
func BuildPlan(order EnrichedOrder) DisplayPlan {
	status := order.State()
	plan := DisplayPlan{
		Status:      status,
		StatusLabel: order.Status,
	}

	policy, ok := PolicyFor(status)
	if !ok {
		return plan
	}

	plan.Recognized = true
	plan.Narrative = policy.Narrative
	plan.Metrics = make([]Metric, 0, len(policy.Metrics))
	for _, kind := range policy.Metrics {
		plan.Metrics = append(plan.Metrics, Metric{
			Kind:  kind,
			Label: kind.Label(),
			Value: metricValue(kind, order.OrderRecord),
		})
	}
	return plan
}

func metricValue(kind MetricKind, order OrderRecord) string {
	switch kind {
	case MetricLoadDate:
		return FormatDisplayDate(order.LoadedAt)
	case MetricPackageDate:
		return FormatDisplayDate(order.PackagedAt)
	case MetricDeliveryDate:
		return FormatDisplayDate(order.DeliveredAt)
	case MetricTentativeDelivery:
		return TentativeDelivery(order.DeliveredAt)
	}
	return PendingDate
}
