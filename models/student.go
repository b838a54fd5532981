package models

type Student struct {
	ID          string `gorm:"column:id;primary_key" json:"id" bson:"_id"`
	DisplayName string `gorm:"column:display_name" json:"display_name" bson:"display_name"`
	MessType    string `gorm:"column:mess_type;index" json:"mess_type" bson:"mess_type"`
}

// TableName sets the insert table name for this struct type
func (Student) TableName() string {
	return "students"
}
