package models

import (
	"time"

	"gorm.io/datatypes"
)

// Follower is a directed edge: FollowerID follows FollowedID.
// The pair is not unique, so the same edge may be stored more than once.
type Follower struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	FollowerID   uint            `gorm:"not null;index" json:"follower_id"`
	FollowedID   uint            `gorm:"not null;index" json:"followed_id"`
	FollowDate   *datatypes.Date `json:"follow_date"`
	FollowerUser *User           `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	FollowedUser *User           `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName specifies the table name for GORM
func (Follower) TableName() string {
	return "followers"
}

// NewFollowDate truncates t to a calendar date suitable for FollowDate.
func NewFollowDate(t time.Time) *datatypes.Date {
	y, m, d := t.Date()
	date := datatypes.Date(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))
	return &date
}

// Serialize returns the public representation of the edge.
// follow_date is an ISO-8601 date string, or nil when the date is unset.
func (f *Follower) Serialize() map[string]any {
	var followDate any
	if f.FollowDate != nil {
		followDate = time.Time(*f.FollowDate).Format(time.DateOnly)
	}
	return map[string]any{
		"id":          f.ID,
		"follower_id": f.FollowerID,
		"followed_id": f.FollowedID,
		"follow_date": followDate,
	}
}
