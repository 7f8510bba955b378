package model

// 三级内容分类：Segment → Group → Subject，深度固定为3

// swagger:model Segment
type Segment struct {
	BaseModel
	Title string `gorm:"size:100;not null" json:"title"`
	Slug  string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
}

func (Segment) TableName() string {
	return "segments"
}

// swagger:model Group
type Group struct {
	BaseModel
	Title     string `gorm:"size:100;not null" json:"title"`
	Slug      string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	SegmentID uint   `gorm:"index;not null" json:"segmentId"`
}

func (Group) TableName() string {
	return "taxonomy_groups"
}

// Subject 冗余保存 SegmentID，便于题库按任意层级过滤
// swagger:model Subject
type Subject struct {
	BaseModel
	Title     string `gorm:"size:100;not null" json:"title"`
	Slug      string `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	GroupID   uint   `gorm:"index;not null" json:"groupId"`
	SegmentID uint   `gorm:"index;not null" json:"segmentId"`
}

func (Subject) TableName() string {
	return "subjects"
}
