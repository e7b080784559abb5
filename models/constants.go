package models

// ✅ Match session statuses (pending -> active -> completed | cancelled)
const (
	SessionStatusPending   = "pending"
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusCancelled = "cancelled"
)

// ✅ Reasons attached to a session:ended event
const (
	EndReasonOpponentLeft = "opponent_left"
	EndReasonCancelled    = "cancelled"
)
