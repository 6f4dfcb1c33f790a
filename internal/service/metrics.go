package service

import "github.com/prometheus/client_golang/prometheus"

var (
	signUps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "signups_total",
		Help: "Total successful sign-ups",
	})
	signIns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signins_total",
		Help: "Sign-in attempts by result",
	}, []string{"result"})
	follows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relationship_changes_total",
		Help: "Follow and unfollow operations",
	}, []string{"op"})
	micropostChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "micropost_changes_total",
		Help: "Micropost creates and deletes",
	}, []string{"op"})
	destroyedUsers = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "users_destroyed_total",
		Help: "Users destroyed by admins",
	})
)

func init() {
	prometheus.MustRegister(signUps, signIns, follows, micropostChanges, destroyedUsers)
}
