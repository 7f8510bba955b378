package model

// Resource 已发布的内容资源（文章等），练习题通过 ResourceQuestion 挂载其上
// swagger:model Resource
type Resource struct {
	BaseModel
	Title    string `gorm:"size:255;not null" json:"title"`
	Slug     string `gorm:"size:255;uniqueIndex" json:"slug"`
	Summary  string `gorm:"type:text" json:"summary"`
	AuthorID uint   `gorm:"index" json:"authorId"`
}

func (Resource) TableName() string {
	return "resources"
}

// ResourceQuestion 资源与题库的有序多对多关联。
// (resource_id, question_id) 唯一；order_index 在资源范围内唯一并决定渲染顺序。
// 解除关联只删除关联行，不删除题目本身。
// swagger:model ResourceQuestion
type ResourceQuestion struct {
	BaseModel
	ResourceID uint `gorm:"not null;uniqueIndex:uniq_resource_question,priority:1;uniqueIndex:uniq_resource_order,priority:1" json:"resourceId"`
	QuestionID uint `gorm:"not null;uniqueIndex:uniq_resource_question,priority:2;index" json:"questionId"`
	OrderIndex int  `gorm:"not null;uniqueIndex:uniq_resource_order,priority:2" json:"orderIndex"`

	Question *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
}

func (ResourceQuestion) TableName() string {
	return "resource_questions"
}
