package scheduler

import "github.com/prometheus/client_golang/prometheus"

// Metrics are the scheduler's exported gauges/counters, read by
// Prometheus scrapes of the /metrics handler that cmd/scheduler serves
// via promhttp on its own MetricsAddr listener (the fasthttp debug
// surface does not serve /metrics).
type Metrics struct {
	QueueDepth       prometheus.Gauge
	LiveWorkers      prometheus.Gauge
	LiveObjStores    prometheus.Gauge
	LiveObjRefs      prometheus.Gauge
	RetiredObjRefs   prometheus.Counter
	DeliveriesTotal  prometheus.Counter
	DeliveryFailures prometheus.Counter
	TasksDispatched  prometheus.Counter
	TasksFailed      prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskmesh_scheduler_queue_depth",
			Help: "Number of tasks currently queued awaiting a match.",
		}),
		LiveWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskmesh_scheduler_live_workers",
			Help: "Number of registered workers not marked unreachable.",
		}),
		LiveObjStores: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskmesh_scheduler_live_objstores",
			Help: "Number of registered object stores.",
		}),
		LiveObjRefs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taskmesh_scheduler_live_objrefs",
			Help: "Number of canonical ObjRefs minted and not yet retired.",
		}),
		RetiredObjRefs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmesh_scheduler_retired_objrefs_total",
			Help: "Total canonical ObjRefs retired by the GC cascade.",
		}),
		DeliveriesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmesh_scheduler_deliveries_total",
			Help: "Total StartDelivery attempts issued to object stores.",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmesh_scheduler_delivery_failures_total",
			Help: "Total deliveries that exhausted their retry budget.",
		}),
		TasksDispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmesh_scheduler_tasks_dispatched_total",
			Help: "Total tasks dispatched to a worker via ExecuteTask.",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskmesh_scheduler_tasks_failed_total",
			Help: "Total tasks recorded as failed (worker-reported, delivery, or dispatch failures).",
		}),
	}
	reg.MustRegister(m.QueueDepth, m.LiveWorkers, m.LiveObjStores, m.LiveObjRefs,
		m.RetiredObjRefs, m.DeliveriesTotal, m.DeliveryFailures, m.TasksDispatched, m.TasksFailed)
	return m
}
