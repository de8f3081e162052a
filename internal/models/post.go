package models

// Post is a short piece of content authored by a user, optionally pointing at media.
type Post struct {
	ID      uint    `gorm:"primaryKey" json:"id"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	User    *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Content *string `gorm:"size:250" json:"content"`
	Like    int     `gorm:"column:like;not null;default:0" json:"like"`
	URL     *string `gorm:"column:url;size:250" json:"url"`

	Comments []Comment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

// TableName specifies the table name for GORM
func (Post) TableName() string {
	return "posts"
}

// Serialize returns the public representation of the post.
// Content and url are nil when unset.
func (p *Post) Serialize() map[string]any {
	return map[string]any{
		"id":      p.ID,
		"user_id": p.UserID,
		"content": derefString(p.Content),
		"like":    p.Like,
		"url":     derefString(p.URL),
	}
}

func derefString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
