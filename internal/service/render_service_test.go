package service

import (
	"context"
	"testing"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/util"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqQuestion(id uint) model.PaperQuestion {
	return model.PaperQuestion{
		QuestionID:   id,
		QuestionText: "选择正确答案",
		QuestionType: model.QuestionMCQ,
		Marks:        2,
		Explanation:  "因为乙是对的",
		Options: []model.PaperOption{
			{OptionID: 100, OptionText: "甲"},
			{OptionID: 101, OptionText: "乙", IsCorrect: true},
			{OptionID: 102, OptionText: "丙"},
			{OptionID: 103, OptionText: "丁"},
		},
	}
}

func TestParseRenderMode(t *testing.T) {
	m, err := ParseRenderMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeInteractive, m)

	m, err = ParseRenderMode("print_solved")
	require.NoError(t, err)
	assert.Equal(t, ModePrintSolved, m)

	_, err = ParseRenderMode("pdf")
	assert.Error(t, err)
}

func TestOptionLetterStable(t *testing.T) {
	assert.Equal(t, "a", OptionLetter(0))
	assert.Equal(t, "b", OptionLetter(1))
	assert.Equal(t, "e", OptionLetter(4))
}

func TestRenderQuestionUnrevealedHidesAnswers(t *testing.T) {
	view := RenderQuestion(mcqQuestion(1), QuestionState{}, ModeInteractive, true)

	assert.False(t, view.Revealed)
	assert.Nil(t, view.Explanation)
	for _, opt := range view.Options {
		assert.False(t, opt.Correct)
		assert.False(t, opt.UserChoice)
	}
	assert.Equal(t, "a", view.Options[0].Letter)
	assert.Equal(t, "d", view.Options[3].Letter)
}

func TestRenderQuestionRevealedMarksWrongChoice(t *testing.T) {
	st := QuestionState{Revealed: true, SelectedOption: 2}
	view := RenderQuestion(mcqQuestion(1), st, ModeInteractive, true)

	assert.True(t, view.Revealed)
	assert.True(t, view.Options[1].Correct)
	assert.True(t, view.Options[2].UserChoice)
	assert.False(t, view.Options[2].Correct)
	// 选中即正确时不再单独打用户标记
	st = QuestionState{Revealed: true, SelectedOption: 1}
	view = RenderQuestion(mcqQuestion(1), st, ModeInteractive, true)
	assert.True(t, view.Options[1].Correct)
	assert.False(t, view.Options[1].UserChoice)
}

func TestRenderQuestionMultipleCorrectAllMarked(t *testing.T) {
	q := mcqQuestion(1)
	q.Options[3].IsCorrect = true

	view := RenderQuestion(q, QuestionState{Revealed: true, SelectedOption: 0}, ModeInteractive, true)

	assert.True(t, view.Options[1].Correct)
	assert.True(t, view.Options[3].Correct)
	assert.True(t, view.Options[0].UserChoice)
}

func TestRenderQuestionPrintBlankOverridesState(t *testing.T) {
	st := QuestionState{Revealed: true, SelectedOption: 2}
	view := RenderQuestion(mcqQuestion(1), st, ModePrintBlank, true)

	assert.False(t, view.Revealed)
	assert.Nil(t, view.Explanation)
	for _, opt := range view.Options {
		assert.False(t, opt.Correct)
		assert.False(t, opt.UserChoice)
	}
}

func TestRenderQuestionPrintSolvedWithoutSession(t *testing.T) {
	// 无作答记录的零值状态不得被当成选了第一项
	view := RenderQuestion(mcqQuestion(1), QuestionState{}, ModePrintSolved, true)

	assert.True(t, view.Revealed)
	assert.True(t, view.Options[1].Correct)
	for _, opt := range view.Options {
		assert.False(t, opt.UserChoice)
	}
	require.NotNil(t, view.Explanation)
	assert.Equal(t, "因为乙是对的", view.Explanation.Text)
}

func TestRenderQuestionExplanationLockedWithoutEntitlement(t *testing.T) {
	st := QuestionState{Revealed: true, SelectedOption: 1}
	view := RenderQuestion(mcqQuestion(1), st, ModeInteractive, false)

	require.NotNil(t, view.Explanation)
	assert.True(t, view.Explanation.Locked)
	assert.Empty(t, view.Explanation.Text)
	assert.NotEmpty(t, view.Explanation.CallToAction)
}

func TestRenderQuestionPrintSolvedBypassesEntitlement(t *testing.T) {
	view := RenderQuestion(mcqQuestion(1), QuestionState{}, ModePrintSolved, false)

	require.NotNil(t, view.Explanation)
	assert.False(t, view.Explanation.Locked)
	assert.Equal(t, "因为乙是对的", view.Explanation.Text)
}

func TestRenderSetFlatNumbering(t *testing.T) {
	passage := model.PaperQuestion{
		QuestionID:   10,
		QuestionText: "阅读短文",
		QuestionType: model.QuestionPassage,
		Children: []model.PaperQuestion{
			{QuestionID: 11, QuestionType: model.QuestionMCQ, Marks: 1},
			{QuestionID: 12, QuestionType: model.QuestionWritten, Marks: 2},
		},
	}
	standalone := model.PaperQuestion{QuestionID: 20, QuestionType: model.QuestionMCQ, Marks: 1}

	result := RenderSet([]model.PaperQuestion{standalone, passage, mcqQuestion(30)}, nil, ModePrintBlank, false)

	require.Len(t, result.Views, 5)
	assert.Equal(t, 1, result.Views[0].Number)

	// passage 题干不占号
	assert.True(t, result.Views[1].PassageStem)
	assert.Equal(t, 0, result.Views[1].Number)

	// 子题占用连续顶层题号
	assert.Equal(t, 2, result.Views[2].Number)
	assert.Equal(t, 3, result.Views[3].Number)
	assert.Equal(t, 4, result.Views[4].Number)

	assert.Equal(t, 4, result.QuestionCount)
}

func TestRenderSetEmptyPlaceholder(t *testing.T) {
	result := RenderSet(nil, nil, ModeInteractive, false)

	assert.Empty(t, result.Views)
	assert.NotEmpty(t, result.Placeholder)
	assert.Equal(t, 0, result.QuestionCount)
	assert.Equal(t, 0, result.ReadTimeMinutes)
}

func TestRenderSetReadTime(t *testing.T) {
	questions := []model.PaperQuestion{
		mcqQuestion(1), mcqQuestion(2), mcqQuestion(3),
	}
	result := RenderSet(questions, nil, ModeInteractive, false)

	assert.Equal(t, 3, result.QuestionCount)
	assert.Equal(t, 2, result.ReadTimeMinutes)
}

func TestQuestionsFromLinksSkipsMissing(t *testing.T) {
	q := model.Question{QuestionText: "独立题", QuestionType: model.QuestionMCQ, Marks: 1}
	q.ID = 7

	links := []model.ResourceQuestion{
		{ResourceID: 1, QuestionID: 7, Question: &q},
		{ResourceID: 1, QuestionID: 8, Question: nil},
	}

	questions := QuestionsFromLinks(links)
	require.Len(t, questions, 1)
	assert.Equal(t, uint(7), questions[0].QuestionID)
}

func newRenderServiceFixture(t *testing.T) *RenderService {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	finder := &fakeQuestionFinder{questions: map[uint]*model.Question{
		1: {
			BaseModel:    model.BaseModel{ID: 1},
			QuestionText: "选择正确答案",
			QuestionType: model.QuestionMCQ,
			Options: []model.Option{
				{OptionText: "甲"},
				{OptionText: "乙", IsCorrect: true},
				{OptionText: "丙"},
				{OptionText: "丁"},
			},
		},
	}}
	return NewRenderService(rdb, finder)
}

// 作答下标必须落在题目实际选项数之内
func TestSelectOptionRejectsOutOfRangeIndex(t *testing.T) {
	svc := newRenderServiceFixture(t)
	ctx := context.Background()

	_, err := svc.SelectOption(ctx, "anon:s1", 1, 4)
	assert.Error(t, err)

	_, err = svc.SelectOption(ctx, "anon:s1", 1, -1)
	assert.Error(t, err)

	_, err = svc.SelectOption(ctx, "anon:s1", 404, 0)
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestSelectOptionFirstChoiceWins(t *testing.T) {
	svc := newRenderServiceFixture(t)
	ctx := context.Background()

	state, err := svc.SelectOption(ctx, "anon:s2", 1, 2)
	require.NoError(t, err)
	assert.True(t, state.Revealed)
	assert.Equal(t, 2, state.SelectedOption)

	// 重复作答不改写首次记录
	state, err = svc.SelectOption(ctx, "anon:s2", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, state.SelectedOption)
}

func TestStatesRoundTrip(t *testing.T) {
	svc := newRenderServiceFixture(t)
	ctx := context.Background()

	_, err := svc.SelectOption(ctx, "user:9", 1, 1)
	require.NoError(t, err)

	states := svc.States(ctx, "user:9")
	require.Contains(t, states, uint(1))
	assert.Equal(t, QuestionState{Revealed: true, SelectedOption: 1}, states[uint(1)])
}
