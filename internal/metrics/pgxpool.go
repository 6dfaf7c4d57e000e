package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterPgxPoolMetrics exposes pool statistics as gauges on reg.
func RegisterPgxPoolMetrics(reg prometheus.Registerer, pool *pgxpool.Pool) {
	gauges := []struct {
		name, help string
		value      func(*pgxpool.Stat) float64
	}{
		{"acquired_conns", "Connections currently acquired from the pool", func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }},
		{"idle_conns", "Idle connections in the pool", func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }},
		{"total_conns", "Total connections in the pool", func(s *pgxpool.Stat) float64 { return float64(s.TotalConns()) }},
		{"max_conns", "Configured maximum pool size", func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }},
		{"empty_acquire_count", "Acquires that had to wait for a connection", func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }},
	}

	for _, g := range gauges {
		value := g.value
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "plura",
			Subsystem: "pgxpool",
			Name:      g.name,
			Help:      g.help,
		}, func() float64 {
			return value(pool.Stat())
		}))
	}
}
