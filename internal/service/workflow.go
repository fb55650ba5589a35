package service

import "github.com/noah-isme/collab-portal-api/internal/models"

// transitions lists the statuses reachable from each state. States without
// an entry are terminal.
var transitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.ApplicationStatusPending: {
		models.ApplicationStatusShortlisted,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	},
	models.ApplicationStatusShortlisted: {
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	},
}

// CanTransition reports whether an application may move from one status to another.
func CanTransition(from, to models.ApplicationStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NextStatuses returns the statuses reachable from the given state.
func NextStatuses(from models.ApplicationStatus) []models.ApplicationStatus {
	out := make([]models.ApplicationStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}
