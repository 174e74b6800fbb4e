package offerbook

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var placementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "offer_placements_total",
	Help: "Placement outcomes of offers handed to the book.",
}, []string{"outcome"})

const (
	outcomePlaced      = "placed"
	outcomeDeactivated = "deactivated"
	outcomeFailed      = "failed"
)
