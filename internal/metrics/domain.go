package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NotificationsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plura_notifications_written_total",
		Help: "Activity notifications inserted",
	})

	InvitationsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plura_invitations_sent_total",
		Help: "Invitations sent through the identity provider, by outcome",
	}, []string{"outcome"})

	InvitationsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "plura_invitations_accepted_total",
		Help: "Pending invitations consumed on first sign-in",
	})

	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "plura_uploads_total",
		Help: "Uploaded files, by category and outcome",
	}, []string{"category", "outcome"})

	UploadBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plura_upload_bytes",
		Help:    "Size of accepted uploads",
		Buckets: prometheus.ExponentialBuckets(16<<10, 4, 6),
	}, []string{"category"})
)
