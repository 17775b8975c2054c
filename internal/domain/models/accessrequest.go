// internal/domain/models/accessrequest.go
package models

import "time"

// RequestStatus is the state of an access request. Requests start
// pending and move to exactly one terminal state; they are never
// deleted, so the request store is an append-only history.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// Terminal reports whether the status admits no further transitions.
func (s RequestStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// ParseRequestStatus validates a wire-level decision value.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch RequestStatus(s) {
	case StatusPending, StatusApproved, StatusRejected:
		return RequestStatus(s), true
	default:
		return "", false
	}
}

// AccessRequest is a user's self-service request to join a group.
// Field names mirror the persisted requests.json entries.
type AccessRequest struct {
	ID            string        `bson:"request_id" json:"request_id"`
	Username      string        `bson:"username" json:"username"`
	Group         string        `bson:"grupo" json:"grupo"`
	Status        RequestStatus `bson:"status" json:"status"`
	Justification string        `bson:"justificativa" json:"justificativa"`
	CreatedAt     time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt     *time.Time    `bson:"updated_at,omitempty" json:"updated_at"`
	ReviewedBy    *string       `bson:"reviewed_by,omitempty" json:"reviewed_by"`
	ReviewComment *string       `bson:"review_comment,omitempty" json:"review_comment"`
}
