package observability

import "github.com/prometheus/client_golang/prometheus"

// Refresh outcome label values for RefreshTotal.
const (
	RefreshAllowed   = "allowed"   // refresh performed, message edited
	RefreshUnchanged = "unchanged" // refresh performed, edit skipped (text identical)
	RefreshDenied    = "denied"    // rejected by the cooldown gate
	RefreshNoData    = "no_data"   // no registry entry for the message
	RefreshFailed    = "failed"    // store or gateway failure
)

var (
	// UpdatesProcessed counts inbound chat events the poll loop dispatched.
	UpdatesProcessed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statusbot_updates_processed_total",
		Help: "Total number of inbound chat updates dispatched.",
	})

	// CardsSent counts new status cards posted to the chat.
	CardsSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statusbot_cards_sent_total",
		Help: "Total number of status cards sent.",
	})

	// RefreshTotal counts refresh button presses by outcome.
	RefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "statusbot_refresh_total",
		Help: "Total number of refresh attempts by outcome.",
	}, []string{"outcome"})

	// StoreFailures counts failed record store lookups (including timeouts).
	StoreFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "statusbot_store_failures_total",
		Help: "Total number of failed record store lookups.",
	})
)

func init() {
	prometheus.MustRegister(UpdatesProcessed, CardsSent, RefreshTotal, StoreFailures)
}
