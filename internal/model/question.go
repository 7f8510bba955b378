package model

type QuestionType string

const (
	QuestionMCQ     QuestionType = "mcq"
	QuestionWritten QuestionType = "written"
	QuestionPassage QuestionType = "passage" // 阅读材料题，携带子题
)

// Question 题库记录。passage 题拥有子题（ParentID 指向父题），
// 子题不允许再有子题，树深不超过2，由服务层校验保证。
// swagger:model Question
type Question struct {
	BaseModel
	QuestionText string       `gorm:"type:text;not null" json:"questionText"`
	QuestionType QuestionType `gorm:"size:20;not null;index" json:"questionType"`
	Marks        int          `gorm:"default:1" json:"marks"`
	Explanation  string       `gorm:"type:text" json:"explanation"` // 答案解析，可为空
	ParentID     *uint        `gorm:"index" json:"parentId,omitempty"`
	TopicTag     string       `gorm:"size:100" json:"topicTag,omitempty"`
	SegmentID    uint         `gorm:"index" json:"segmentId"`
	GroupID      uint         `gorm:"index" json:"groupId"`
	SubjectID    uint         `gorm:"index" json:"subjectId"`

	Options  []Option   `gorm:"foreignKey:QuestionID" json:"options"`
	Children []Question `gorm:"foreignKey:ParentID" json:"children,omitempty"`
}

func (Question) TableName() string {
	return "question_bank"
}

// IsChild 子题不可独立入卷，只能随父题整体渲染
func (q *Question) IsChild() bool {
	return q.ParentID != nil
}

// swagger:model Option
type Option struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	OptionText string `gorm:"type:text;not null" json:"optionText"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
}

func (Option) TableName() string {
	return "question_options"
}
