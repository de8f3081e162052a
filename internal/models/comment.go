package models

// Comment represents a comment on a post.
type Comment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	PostID  uint   `gorm:"not null;index" json:"post_id"`
	User    *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Post    *Post  `gorm:"foreignKey:PostID" json:"post,omitempty"`
	Content string `gorm:"size:250;not null" json:"content"`
	Like    int    `gorm:"column:like;not null;default:0" json:"like"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}

// Serialize returns the public representation of the comment.
func (c *Comment) Serialize() map[string]any {
	return map[string]any{
		"id":      c.ID,
		"user_id": c.UserID,
		"post_id": c.PostID,
		"content": c.Content,
		"like":    c.Like,
	}
}
