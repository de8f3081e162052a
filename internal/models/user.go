// Package models contains data structures for the application's domain models.
package models

// User represents an account in the social network.
// Posts and comments authored by the user are removed with it.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Nickname string `gorm:"size:80;unique;not null" json:"nickname"`
	Email    string `gorm:"size:120;unique;not null" json:"email"`
	// Password is stored exactly as provided by the caller.
	Password string `gorm:"size:128;not null" json:"-"`

	Posts    []Post    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"posts,omitempty"`
	Comments []Comment `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
	// Followers are edges where this user is the one being followed.
	Followers []Follower `gorm:"foreignKey:FollowedID" json:"-"`
	// Following are edges where this user is the follower.
	Following []Follower `gorm:"foreignKey:FollowerID" json:"-"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// Serialize returns the public representation of the user. The password is never included.
func (u *User) Serialize() map[string]any {
	return map[string]any{
		"id":       u.ID,
		"nickname": u.Nickname,
		"email":    u.Email,
	}
}
