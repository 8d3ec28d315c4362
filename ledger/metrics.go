// Copyright 2026 Corvus Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type rebuildMetrics struct {
	height        prometheus.Gauge
	wallets       prometheus.Gauge
	delegates     prometheus.Gauge
	duration      prometheus.Gauge
	rebuildsTotal prometheus.Counter
	anomalies     *prometheus.CounterVec
}

func (m *rebuildMetrics) init(promRegistry prometheus.Registerer) {
	promautoFactory := promauto.With(promRegistry)
	m.height = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "skink_ledger_rebuild_height",
		Help: "chain height of the most recent ledger rebuild",
	})
	m.wallets = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "skink_ledger_wallets",
		Help: "number of wallets in the rebuilt ledger",
	})
	m.delegates = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "skink_ledger_delegates",
		Help: "number of registered delegates in the rebuilt ledger",
	})
	m.duration = promautoFactory.NewGauge(prometheus.GaugeOpts{
		Name: "skink_ledger_rebuild_duration_seconds",
		Help: "duration of the most recent ledger rebuild",
	})
	m.rebuildsTotal = promautoFactory.NewCounter(prometheus.CounterOpts{
		Name: "skink_ledger_rebuilds_total",
		Help: "total number of completed ledger rebuilds",
	})
	m.anomalies = promautoFactory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "skink_ledger_rebuild_anomalies_total",
			Help: "total number of tolerated data anomalies by kind",
		},
		[]string{"kind"},
	)
}
