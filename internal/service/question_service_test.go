package service

import (
	"testing"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqRequest() QuestionRequest {
	return QuestionRequest{
		QuestionText: "选择题",
		QuestionType: model.QuestionMCQ,
		Marks:        2,
		Options: []OptionRequest{
			{OptionText: "甲"},
			{OptionText: "乙", IsCorrect: true},
		},
	}
}

func TestValidateQuestionMCQNeedsCorrectOption(t *testing.T) {
	req := mcqRequest()
	require.NoError(t, validateQuestionRequest(&req, false))

	req.Options[1].IsCorrect = false
	assert.ErrorIs(t, validateQuestionRequest(&req, false), util.ErrNoCorrectOption)
}

func TestValidateQuestionMCQAllowsMultipleCorrect(t *testing.T) {
	req := mcqRequest()
	req.Options[0].IsCorrect = true
	assert.NoError(t, validateQuestionRequest(&req, false))
}

func TestValidateQuestionDefaultsMarks(t *testing.T) {
	req := QuestionRequest{
		QuestionText: "简答题",
		QuestionType: model.QuestionWritten,
	}
	require.NoError(t, validateQuestionRequest(&req, false))
	assert.Equal(t, 1, req.Marks)
}

func TestValidateQuestionPassageChildren(t *testing.T) {
	req := QuestionRequest{
		QuestionText: "阅读短文",
		QuestionType: model.QuestionPassage,
		Children: []QuestionRequest{
			mcqRequest(),
			{QuestionText: "简答", QuestionType: model.QuestionWritten},
		},
	}
	require.NoError(t, validateQuestionRequest(&req, false))
	// 子题分值同样补全
	assert.Equal(t, 1, req.Children[1].Marks)
}

func TestValidateQuestionRejectsNestedPassage(t *testing.T) {
	req := QuestionRequest{
		QuestionText: "外层短文",
		QuestionType: model.QuestionPassage,
		Children: []QuestionRequest{
			{QuestionText: "内层短文", QuestionType: model.QuestionPassage},
		},
	}
	assert.ErrorIs(t, validateQuestionRequest(&req, false), util.ErrInvalidParent)
}

func TestValidateQuestionRejectsGrandchildren(t *testing.T) {
	child := mcqRequest()
	child.Children = []QuestionRequest{mcqRequest()}

	req := QuestionRequest{
		QuestionText: "短文",
		QuestionType: model.QuestionPassage,
		Children:     []QuestionRequest{child},
	}
	assert.ErrorIs(t, validateQuestionRequest(&req, false), util.ErrInvalidParent)
}

func TestValidateQuestionRejectsUnknownType(t *testing.T) {
	req := QuestionRequest{
		QuestionText: "???",
		QuestionType: model.QuestionType("essay"),
	}
	assert.Error(t, validateQuestionRequest(&req, false))
}

func TestBuildQuestionTreeCarriesChildren(t *testing.T) {
	req := QuestionRequest{
		QuestionText: "阅读短文",
		QuestionType: model.QuestionPassage,
		SegmentID:    1,
		GroupID:      2,
		SubjectID:    3,
		Children: []QuestionRequest{
			mcqRequest(),
			{QuestionText: "简答", QuestionType: model.QuestionWritten, Marks: 3},
		},
	}
	require.NoError(t, validateQuestionRequest(&req, false))

	// 创建与更新共用同一构造路径，子题不得在任一路径上丢失
	q := buildQuestionTree(&req)

	require.Len(t, q.Children, 2)
	assert.Equal(t, "简答", q.Children[1].QuestionText)
	assert.Len(t, q.Children[0].Options, 2)
	// 子题继承父题分类
	assert.Equal(t, uint(1), q.Children[0].SegmentID)
	assert.Equal(t, uint(2), q.Children[0].GroupID)
	assert.Equal(t, uint(3), q.Children[1].SubjectID)
}

func TestBuildQuestionCopiesOptions(t *testing.T) {
	req := mcqRequest()
	q := buildQuestion(&req)

	require.Len(t, q.Options, 2)
	assert.Equal(t, "乙", q.Options[1].OptionText)
	assert.True(t, q.Options[1].IsCorrect)
	assert.Equal(t, model.QuestionMCQ, q.QuestionType)
	assert.Equal(t, 2, q.Marks)
}
