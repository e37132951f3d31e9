package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PostsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_created_total",
		Help: "Posts successfully created.",
	})

	PostsDeletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_deleted_total",
		Help: "Posts successfully deleted.",
	})

	PostsTitleUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_posts_title_updates_total",
		Help: "Successful post title updates.",
	})

	MutationsDeniedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_mutations_denied_total",
		Help: "Post mutations rejected before reaching the store.",
	}, []string{"reason"})

	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_logins_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})
)
