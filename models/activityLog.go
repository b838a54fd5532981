package models

import "time"

type ActivityLog struct {
	CreatedAt   *time.Time `gorm:"column:created_at" json:"created_at" bson:"created_at"`
	Description string     `gorm:"column:description" json:"description" bson:"description"`
	ID          int64      `gorm:"column:id;primary_key" json:"id" bson:"-"`
	LogName     string     `gorm:"column:log_name" json:"log_name" bson:"log_name"`
	Properties  string     `gorm:"column:properties;type:text" json:"properties" bson:"properties"`
	SubjectID   string     `gorm:"column:subject_id" json:"subject_id" bson:"subject_id"`
	SubjectType string     `gorm:"column:subject_type" json:"subject_type" bson:"subject_type"`
	UpdatedAt   *time.Time `gorm:"column:updated_at" json:"updated_at" bson:"updated_at"`
}

// TableName sets the insert table name for this struct type
func (ActivityLog) TableName() string {
	return "activity_log"
}
