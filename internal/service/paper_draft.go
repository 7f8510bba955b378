package service

import "edu_portal_backend/internal/model"

// PaperDraft 组卷工作区：单个编辑会话内有序、去重的选题列表
// 和累计总分。保存前不落库，只有显式 Save 才产生 I/O。
type PaperDraft struct {
	Questions  []model.PaperQuestion `json:"questions"`
	TotalMarks int                   `json:"totalMarks"`
}

func NewPaperDraft() *PaperDraft {
	return &PaperDraft{Questions: []model.PaperQuestion{}}
}

func (d *PaperDraft) contains(questionID uint) bool {
	for _, q := range d.Questions {
		if q.QuestionID == questionID {
			return true
		}
	}
	return false
}

// Add 幂等追加：同一题目重复加入是 no-op，防止搜索结果里连点两次。
// 分值缺省按1计。返回是否实际加入。
func (d *PaperDraft) Add(q model.PaperQuestion) bool {
	if d.contains(q.QuestionID) {
		return false
	}
	if q.Marks <= 0 {
		q.Marks = 1
	}
	d.Questions = append(d.Questions, q)
	d.TotalMarks += q.Marks
	return true
}

// Remove 移除选题并扣减总分，下限为0：任何账目错配都不允许
// 把负的总分暴露出去。返回是否实际移除。
func (d *PaperDraft) Remove(questionID uint) bool {
	for i, q := range d.Questions {
		if q.QuestionID == questionID {
			d.Questions = append(d.Questions[:i], d.Questions[i+1:]...)
			d.TotalMarks -= q.Marks
			if d.TotalMarks < 0 {
				d.TotalMarks = 0
			}
			return true
		}
	}
	return false
}

func (d *PaperDraft) Len() int {
	return len(d.Questions)
}

// SnapshotQuestion 把题库记录深拷贝为快照形态。选项按原始顺序拷贝
// （字母 a/b/c… 由下标决定，快照定格后重印不变）；passage 子题
// 展开一层，子题自身不再嵌套。
func SnapshotQuestion(q *model.Question) model.PaperQuestion {
	snap := model.PaperQuestion{
		QuestionID:   q.ID,
		QuestionText: q.QuestionText,
		QuestionType: q.QuestionType,
		Marks:        q.Marks,
		Explanation:  q.Explanation,
	}
	for _, opt := range q.Options {
		snap.Options = append(snap.Options, model.PaperOption{
			OptionID:   opt.ID,
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
		})
	}
	for i := range q.Children {
		child := SnapshotQuestion(&q.Children[i])
		child.Children = nil
		snap.Children = append(snap.Children, child)
	}
	return snap
}
