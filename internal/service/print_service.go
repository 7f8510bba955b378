package service

import (
	"fmt"

	"edu_portal_backend/internal/model"
)

// 打印排版参数。行高模型按等宽近似估算，够用于分页；
// 真正的栅格化交给下游导出器。
const (
	defaultLinesPerPage = 48
	printLineWidth      = 90
)

type PageFooter struct {
	Brand string `json:"brand"`
	Text  string `json:"text"` // "Page N of Total"，总页数定稿后统一写入
}

type PrintPage struct {
	Number int        `json:"number"`
	Lines  []string   `json:"lines"`
	Footer PageFooter `json:"footer"`
}

// PrintDocument 打印产物：分页后的文档，每页带品牌页脚。
// 页码必须在总页数已知后一次性回填到每一页，而不是边排边算。
type PrintDocument struct {
	Title         string      `json:"title"`
	InstituteName string      `json:"instituteName,omitempty"`
	Duration      string      `json:"duration,omitempty"`
	TotalMarks    int         `json:"totalMarks"`
	Watermark     string      `json:"watermark,omitempty"`
	Pages         []PrintPage `json:"pages"`
	TotalPages    int         `json:"totalPages"`
}

type PrintService struct {
	Brand        string
	LinesPerPage int
}

func NewPrintService(brand string) *PrintService {
	if brand == "" {
		brand = "EduPortal"
	}
	return &PrintService{
		Brand:        brand,
		LinesPerPage: defaultLinesPerPage,
	}
}

func appendWrapped(lines []string, text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return append(lines, "")
	}
	for len(runes) > printLineWidth {
		lines = append(lines, string(runes[:printLineWidth]))
		runes = runes[printLineWidth:]
	}
	return append(lines, string(runes))
}

// questionLines 把单题视图转成打印行。选择题选项两两一行；
// 奇数个时最后一行只占左列。
func questionLines(view QuestionView) []string {
	var lines []string

	if view.PassageStem {
		lines = appendWrapped(lines, view.Text)
	} else {
		head := fmt.Sprintf("%d. %s", view.Number, view.Text)
		if view.Marks > 0 {
			head = fmt.Sprintf("%s  [%d]", head, view.Marks)
		}
		lines = appendWrapped(lines, head)
	}

	for i := 0; i < len(view.Options); i += 2 {
		left := formatPrintOption(view.Options[i])
		row := left
		if i+1 < len(view.Options) {
			row = fmt.Sprintf("%-44s %s", left, formatPrintOption(view.Options[i+1]))
		}
		lines = appendWrapped(lines, row)
	}

	if view.Explanation != nil && !view.Explanation.Locked && view.Explanation.Text != "" {
		lines = appendWrapped(lines, "解析: "+view.Explanation.Text)
	}

	// 题目之间留一空行
	lines = append(lines, "")
	return lines
}

func formatPrintOption(opt OptionView) string {
	text := fmt.Sprintf("%s. %s", opt.Letter, opt.Text)
	if opt.Correct {
		text = "✓ " + text
	}
	return text
}

// BuildDocument 组装打印文档：首页头部 → 题目分块分页 → 页脚回填。
// 页脚的 "Page N of Total" 必须等全部分页结束、总页数已知后
// 才能写入每一页（后置排版 pass，不能边排边写）。
func (s *PrintService) BuildDocument(title, instituteName, duration string, totalMarks int, settings model.PaperSettings, result RenderResult) PrintDocument {
	doc := PrintDocument{
		Title:         title,
		InstituteName: instituteName,
		Duration:      duration,
		TotalMarks:    totalMarks,
	}
	if settings.ShowWatermark {
		doc.Watermark = s.Brand
	}

	var header []string
	header = appendWrapped(header, title)
	if instituteName != "" {
		header = appendWrapped(header, instituteName)
	}
	meta := fmt.Sprintf("总分: %d", totalMarks)
	if duration != "" {
		meta = fmt.Sprintf("时长: %s    %s", duration, meta)
	}
	header = appendWrapped(header, meta)
	if settings.ShowInstructions && settings.Instructions != "" {
		header = appendWrapped(header, settings.Instructions)
	}
	header = append(header, "")

	capacity := s.LinesPerPage
	current := PrintPage{Lines: header}
	flush := func() {
		doc.Pages = append(doc.Pages, current)
		current = PrintPage{}
	}

	if result.Placeholder != "" {
		current.Lines = appendWrapped(current.Lines, result.Placeholder)
	}

	for _, view := range result.Views {
		block := questionLines(view)
		if len(current.Lines)+len(block) > capacity && len(current.Lines) > 0 {
			flush()
		}
		// 超过整页容量的大题允许跨页续排
		for len(block) > 0 {
			room := capacity - len(current.Lines)
			if room <= 0 {
				flush()
				room = capacity
			}
			take := room
			if take > len(block) {
				take = len(block)
			}
			current.Lines = append(current.Lines, block[:take]...)
			block = block[take:]
		}
	}
	if len(current.Lines) > 0 || len(doc.Pages) == 0 {
		flush()
	}

	// 页脚后置注入：总页数此刻才已知
	doc.TotalPages = len(doc.Pages)
	for i := range doc.Pages {
		doc.Pages[i].Number = i + 1
		doc.Pages[i].Footer = PageFooter{
			Brand: s.Brand,
			Text:  fmt.Sprintf("Page %d of %d", i+1, doc.TotalPages),
		}
	}

	return doc
}
