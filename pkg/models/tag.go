package models

// Tag is a label attached to vocabulary entries, many-to-many
type Tag struct {
	ID          int64  `json:"tag_id" db:"tag_id"`
	Name        string `json:"tag_name" db:"tag_name"`
	Description string `json:"description" db:"description"`
}
