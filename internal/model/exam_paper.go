package model

import "encoding/json"

// ExamPaper 保存时落库的试卷快照。Questions 是组卷完成时题目
// （含选项、子题）的序列化副本，TotalMarks 在保存时等于快照分值之和；
// 之后题库中的原题再怎么改，已保存的试卷不受影响。
// swagger:model ExamPaper
type ExamPaper struct {
	BaseModel
	UserID        uint            `gorm:"index;not null" json:"userId"`
	Title         string          `gorm:"size:255;not null" json:"title"`
	InstituteName string          `gorm:"size:255" json:"instituteName"`
	Duration      string          `gorm:"size:50" json:"duration"`
	TotalMarks    int             `gorm:"default:0" json:"totalMarks"`
	Questions     json.RawMessage `gorm:"type:json" json:"questions"` // []PaperQuestion
	Settings      json.RawMessage `gorm:"type:json" json:"settings"`  // PaperSettings
}

func (ExamPaper) TableName() string {
	return "exam_papers"
}

// PaperSettings 试卷打印/展示设置
type PaperSettings struct {
	Instructions     string `json:"instructions"`
	ShowInstructions bool   `json:"showInstructions"`
	ShowWatermark    bool   `json:"showWatermark"`
}

// PaperQuestion 快照中的单题，是保存时题目状态的深拷贝。
// 子题只会出现在 passage 题的 Children 里，自身不再嵌套。
type PaperQuestion struct {
	QuestionID   uint            `json:"questionId"`
	QuestionText string          `json:"questionText"`
	QuestionType QuestionType    `json:"questionType"`
	Marks        int             `json:"marks"`
	Explanation  string          `json:"explanation,omitempty"`
	Options      []PaperOption   `json:"options,omitempty"`
	Children     []PaperQuestion `json:"children,omitempty"`
}

type PaperOption struct {
	OptionID   uint   `json:"optionId"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
}

// QuestionList 反序列化快照；快照损坏属于数据级错误，直接上抛
func (p *ExamPaper) QuestionList() ([]PaperQuestion, error) {
	if len(p.Questions) == 0 {
		return []PaperQuestion{}, nil
	}
	var qs []PaperQuestion
	if err := json.Unmarshal(p.Questions, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}

// SettingsValue 反序列化设置，空值返回零值设置
func (p *ExamPaper) SettingsValue() PaperSettings {
	var s PaperSettings
	if len(p.Settings) > 0 {
		_ = json.Unmarshal(p.Settings, &s)
	}
	return s
}
