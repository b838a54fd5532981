package models

import "time"

type Feedback struct {
	ID        int64      `gorm:"column:id;primary_key" json:"id" bson:"-"`
	StudentID string     `gorm:"column:student_id" json:"student_id" bson:"student_id"`
	ItemID    string     `gorm:"column:item_id;index" json:"item_id" bson:"item_id"`
	Rating    int        `gorm:"column:rating" json:"rating" bson:"rating"`
	Comment   string     `gorm:"column:comment;type:text" json:"comment" bson:"comment"`
	CreatedAt *time.Time `gorm:"column:created_at" json:"created_at" bson:"created_at"`
}

// TableName sets the insert table name for this struct type
func (Feedback) TableName() string {
	return "feedbacks"
}
