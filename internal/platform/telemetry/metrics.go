package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys shared by the HTTP middleware and the transaction
// service.
var (
	AttrHTTPMethod = attribute.Key("http.method")
	AttrHTTPRoute  = attribute.Key("http.route")
	AttrHTTPStatus = attribute.Key("http.status_code")
	AttrDBSystem   = attribute.Key("db.system")
	AttrResult     = attribute.Key("result")
)

// Transaction outcomes recorded under AttrResult.
const (
	ResultCommitted    = "committed"
	ResultRolledBack   = "rolled_back"
	ResultCommitFailed = "commit_failed"
)

// Metrics are the instruments the service records into.
type Metrics struct {
	ServerRequestDuration metric.Float64Histogram
	ServerRequestTotal    metric.Int64Counter
	DBTransactionDuration metric.Float64Histogram
	DBTransactionTotal    metric.Int64Counter
}

type instrument struct {
	name, desc, unit string
}

var (
	serverDuration = instrument{"http.server.request.duration", "Duration of incoming HTTP requests", "s"}
	serverTotal    = instrument{"http.server.request.total", "Total number of incoming HTTP requests", "{request}"}
	txDuration     = instrument{"db.transaction.duration", "Duration of database transactions from begin to commit or rollback", "s"}
	txTotal        = instrument{"db.transaction.total", "Total number of database transactions by outcome", "{transaction}"}
)

// NewMetrics registers the service's instruments on a meter named name.
func NewMetrics(mp metric.MeterProvider, name string) (*Metrics, error) {
	meter := mp.Meter(name)
	var (
		m   Metrics
		err error
	)

	if m.ServerRequestDuration, err = histogram(meter, serverDuration); err != nil {
		return nil, err
	}
	if m.ServerRequestTotal, err = counter(meter, serverTotal); err != nil {
		return nil, err
	}
	if m.DBTransactionDuration, err = histogram(meter, txDuration); err != nil {
		return nil, err
	}
	if m.DBTransactionTotal, err = counter(meter, txTotal); err != nil {
		return nil, err
	}
	return &m, nil
}

func histogram(meter metric.Meter, in instrument) (metric.Float64Histogram, error) {
	h, err := meter.Float64Histogram(in.name, metric.WithDescription(in.desc), metric.WithUnit(in.unit))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", in.name, err)
	}
	return h, nil
}

func counter(meter metric.Meter, in instrument) (metric.Int64Counter, error) {
	c, err := meter.Int64Counter(in.name, metric.WithDescription(in.desc), metric.WithUnit(in.unit))
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", in.name, err)
	}
	return c, nil
}
