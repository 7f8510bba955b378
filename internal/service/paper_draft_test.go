package service

import (
	"testing"

	"edu_portal_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftQuestion(id uint, marks int) model.PaperQuestion {
	return model.PaperQuestion{
		QuestionID:   id,
		QuestionText: "题目",
		QuestionType: model.QuestionMCQ,
		Marks:        marks,
	}
}

func TestPaperDraftAddAccumulatesMarks(t *testing.T) {
	d := NewPaperDraft()

	assert.True(t, d.Add(draftQuestion(1, 1)))
	assert.True(t, d.Add(draftQuestion(2, 2)))
	assert.True(t, d.Add(draftQuestion(3, 5)))

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, 8, d.TotalMarks)
}

func TestPaperDraftAddIsIdempotent(t *testing.T) {
	d := NewPaperDraft()

	assert.True(t, d.Add(draftQuestion(1, 3)))
	assert.False(t, d.Add(draftQuestion(1, 3)))
	assert.False(t, d.Add(draftQuestion(1, 99)))

	assert.Equal(t, 1, d.Len())
	assert.Equal(t, 3, d.TotalMarks)
}

func TestPaperDraftDefaultMarks(t *testing.T) {
	d := NewPaperDraft()

	d.Add(draftQuestion(1, 0))
	d.Add(draftQuestion(2, -4))

	assert.Equal(t, 2, d.TotalMarks)
	assert.Equal(t, 1, d.Questions[0].Marks)
	assert.Equal(t, 1, d.Questions[1].Marks)
}

func TestPaperDraftRemoveAdjustsTotal(t *testing.T) {
	d := NewPaperDraft()
	d.Add(draftQuestion(1, 1))
	d.Add(draftQuestion(2, 2))
	d.Add(draftQuestion(3, 5))

	assert.True(t, d.Remove(2))
	assert.Equal(t, 6, d.TotalMarks)
	assert.Equal(t, 2, d.Len())

	// 不存在的题目是 no-op
	assert.False(t, d.Remove(2))
	assert.Equal(t, 6, d.TotalMarks)
}

func TestPaperDraftRemoveThenAddRestoresTotal(t *testing.T) {
	d := NewPaperDraft()
	d.Add(draftQuestion(1, 4))
	d.Add(draftQuestion(2, 3))

	require.True(t, d.Remove(1))
	require.True(t, d.Add(draftQuestion(1, 4)))

	assert.Equal(t, 7, d.TotalMarks)
	assert.Equal(t, 2, d.Len())
	// 重新加入排在末尾
	assert.Equal(t, uint(1), d.Questions[1].QuestionID)
}

func TestPaperDraftTotalNeverNegative(t *testing.T) {
	d := NewPaperDraft()
	d.Add(draftQuestion(1, 2))

	// 人为制造账目错配
	d.TotalMarks = 1
	assert.True(t, d.Remove(1))
	assert.Equal(t, 0, d.TotalMarks)
}

func TestSnapshotQuestionDeepCopies(t *testing.T) {
	q := &model.Question{
		QuestionText: "阅读短文并回答问题",
		QuestionType: model.QuestionPassage,
		Marks:        0,
		Children: []model.Question{
			{
				QuestionText: "子题一",
				QuestionType: model.QuestionMCQ,
				Marks:        2,
				Options: []model.Option{
					{OptionText: "甲", IsCorrect: false},
					{OptionText: "乙", IsCorrect: true},
				},
			},
			{
				QuestionText: "子题二",
				QuestionType: model.QuestionWritten,
				Marks:        3,
			},
		},
	}
	q.ID = 10
	q.Children[0].ID = 11
	q.Children[1].ID = 12

	snap := SnapshotQuestion(q)

	require.Len(t, snap.Children, 2)
	assert.Equal(t, uint(10), snap.QuestionID)
	assert.Equal(t, uint(11), snap.Children[0].QuestionID)
	assert.Equal(t, "乙", snap.Children[0].Options[1].OptionText)
	assert.True(t, snap.Children[0].Options[1].IsCorrect)
	// 子题不再带孙辈
	assert.Nil(t, snap.Children[0].Children)

	// 快照独立于原记录
	q.Children[0].Options[1].OptionText = "改掉了"
	assert.Equal(t, "乙", snap.Children[0].Options[1].OptionText)
}
