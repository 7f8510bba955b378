package service

import (
	"fmt"
	"strings"
	"testing"

	"edu_portal_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDocumentFooterOnEveryPage(t *testing.T) {
	svc := NewPrintService("EduPortal")

	var questions []model.PaperQuestion
	for i := 1; i <= 60; i++ {
		questions = append(questions, model.PaperQuestion{
			QuestionID:   uint(i),
			QuestionText: fmt.Sprintf("第 %d 题", i),
			QuestionType: model.QuestionWritten,
			Marks:        2,
		})
	}
	result := RenderSet(questions, nil, ModePrintBlank, false)

	doc := svc.BuildDocument("期末试卷", "示例中学", "90分钟", 120, model.PaperSettings{}, result)

	require.Greater(t, doc.TotalPages, 1)
	require.Len(t, doc.Pages, doc.TotalPages)
	for i, page := range doc.Pages {
		assert.Equal(t, i+1, page.Number)
		assert.Equal(t, "EduPortal", page.Footer.Brand)
		// 每一页的 Total 一致，且等于最终总页数
		assert.Equal(t, fmt.Sprintf("Page %d of %d", i+1, doc.TotalPages), page.Footer.Text)
	}
}

func TestBuildDocumentPageCapacity(t *testing.T) {
	svc := NewPrintService("")
	svc.LinesPerPage = 10

	var questions []model.PaperQuestion
	for i := 1; i <= 12; i++ {
		questions = append(questions, model.PaperQuestion{
			QuestionID:   uint(i),
			QuestionText: "简答",
			QuestionType: model.QuestionWritten,
			Marks:        1,
		})
	}
	result := RenderSet(questions, nil, ModePrintBlank, false)
	doc := svc.BuildDocument("试卷", "", "", 12, model.PaperSettings{}, result)

	for _, page := range doc.Pages {
		assert.LessOrEqual(t, len(page.Lines), svc.LinesPerPage)
	}
	// 未配置品牌时退回默认
	assert.Equal(t, "EduPortal", doc.Pages[0].Footer.Brand)
}

func TestBuildDocumentEmptyPaperPlaceholder(t *testing.T) {
	svc := NewPrintService("EduPortal")
	result := RenderSet(nil, nil, ModePrintBlank, false)

	doc := svc.BuildDocument("空卷", "", "", 0, model.PaperSettings{}, result)

	require.Equal(t, 1, doc.TotalPages)
	joined := strings.Join(doc.Pages[0].Lines, "\n")
	assert.Contains(t, joined, "本试卷暂无题目")
	assert.Equal(t, "Page 1 of 1", doc.Pages[0].Footer.Text)
}

func TestQuestionLinesOptionPairing(t *testing.T) {
	view := QuestionView{
		Number: 3,
		Text:   "选择题",
		Type:   model.QuestionMCQ,
		Marks:  2,
		Options: []OptionView{
			{Letter: "a", Text: "甲"},
			{Letter: "b", Text: "乙"},
			{Letter: "c", Text: "丙"},
		},
	}

	lines := questionLines(view)

	// 题头 + 两行选项 + 空行
	require.Len(t, lines, 4)
	assert.Equal(t, "3. 选择题  [2]", lines[0])
	assert.Contains(t, lines[1], "a. 甲")
	assert.Contains(t, lines[1], "b. 乙")
	// 奇数个选项时末行只有左列
	assert.Contains(t, lines[2], "c. 丙")
	assert.NotContains(t, lines[2], "d.")
	assert.Equal(t, "", lines[3])
}

func TestQuestionLinesSolvedMarksCorrect(t *testing.T) {
	q := mcqQuestion(5)
	view := RenderQuestion(q, QuestionState{}, ModePrintSolved, true)
	view.Number = 1

	lines := questionLines(view)
	joined := strings.Join(lines, "\n")

	assert.Contains(t, joined, "✓ b. 乙")
	assert.NotContains(t, joined, "✓ a.")
	assert.Contains(t, joined, "解析: 因为乙是对的")
}

func TestQuestionLinesPassageStemHasNoNumber(t *testing.T) {
	view := QuestionView{
		Text:        "阅读下面的短文",
		Type:        model.QuestionPassage,
		PassageStem: true,
	}

	lines := questionLines(view)
	assert.Equal(t, "阅读下面的短文", lines[0])
}

func TestBuildDocumentWatermark(t *testing.T) {
	svc := NewPrintService("EduPortal")
	result := RenderSet(nil, nil, ModePrintBlank, false)

	doc := svc.BuildDocument("卷", "", "", 0, model.PaperSettings{ShowWatermark: true}, result)
	assert.Equal(t, "EduPortal", doc.Watermark)

	doc = svc.BuildDocument("卷", "", "", 0, model.PaperSettings{}, result)
	assert.Empty(t, doc.Watermark)
}
