package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/util"
	"edu_portal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RenderMode 三种渲染模式：练习（默认）、空白打印、答案打印。
// 一个全局模式贯穿整组题目的揭示状态。
type RenderMode string

const (
	ModeInteractive RenderMode = "interactive"
	ModePrintBlank  RenderMode = "print_blank"
	ModePrintSolved RenderMode = "print_solved"
)

func ParseRenderMode(s string) (RenderMode, error) {
	switch s {
	case "", string(ModeInteractive):
		return ModeInteractive, nil
	case string(ModePrintBlank):
		return ModePrintBlank, nil
	case string(ModePrintSolved):
		return ModePrintSolved, nil
	}
	return "", fmt.Errorf("unknown render mode: %q", s)
}

// QuestionState 练习模式下单题的揭示状态。
// 首次选择后进入 revealed 且不可逆，后续选择不改写已记录的答案。
type QuestionState struct {
	Revealed       bool `json:"revealed"`
	SelectedOption int  `json:"selectedOption"` // 选项下标；未选为 -1
}

type OptionView struct {
	Letter     string `json:"letter"` // 下标0→a，1→b…，同一试卷重印字母不变
	Text       string `json:"text"`
	Correct    bool   `json:"correct"`    // 揭示后：所有 is_correct 选项都标记，不止第一个
	UserChoice bool   `json:"userChoice"` // 揭示后：用户选中的错误选项
}

type ExplanationView struct {
	Locked       bool   `json:"locked"`
	Text         string `json:"text,omitempty"`
	CallToAction string `json:"callToAction,omitempty"`
}

// QuestionView 渲染产物。passage 题干自身不占题号（Number 为 0），
// 其子题逐个占用连续的顶层题号——沿用平铺编号。
type QuestionView struct {
	Number      int                `json:"number,omitempty"`
	QuestionID  uint               `json:"questionId"`
	Text        string             `json:"text"`
	Type        model.QuestionType `json:"type"`
	Marks       int                `json:"marks"`
	Revealed    bool               `json:"revealed"`
	PassageStem bool               `json:"passageStem,omitempty"`
	Options     []OptionView       `json:"options,omitempty"`
	Explanation *ExplanationView   `json:"explanation,omitempty"`
}

type RenderResult struct {
	Mode            RenderMode     `json:"mode"`
	Views           []QuestionView `json:"views"`
	Placeholder     string         `json:"placeholder,omitempty"` // 空卷占位，不渲染空白正文
	QuestionCount   int            `json:"questionCount"`
	ReadTimeMinutes int            `json:"readTimeMinutes"`
}

const lockedExplanationCTA = "登录并开通会员后查看答案解析"

// OptionLetter 选项字母：下标0为a，依次递增。字母由下标唯一决定，
// 预览与重印之间保持稳定。
func OptionLetter(index int) string {
	return string(rune('a' + index))
}

// RenderQuestion 单题渲染的纯函数：给定题目、练习状态、全局模式
// 与查看者权益，产出展示视图。不碰任何共享状态。
func RenderQuestion(q model.PaperQuestion, st QuestionState, mode RenderMode, entitled bool) QuestionView {
	view := QuestionView{
		QuestionID: q.QuestionID,
		Text:       q.QuestionText,
		Type:       q.QuestionType,
		Marks:      q.Marks,
	}

	// 模式对揭示状态的强制覆盖：
	// 空白打印永远未揭示（哪怕本会话已作答），答案打印永远揭示。
	switch mode {
	case ModePrintBlank:
		view.Revealed = false
	case ModePrintSolved:
		view.Revealed = true
	default:
		view.Revealed = st.Revealed
	}

	for i, opt := range q.Options {
		ov := OptionView{
			Letter: OptionLetter(i),
			Text:   opt.OptionText,
		}
		if view.Revealed {
			// 两条独立的视觉事实，可同时落在不同选项上。
			// 用户标记只在确有作答记录时生效（st.Revealed），
			// 避免打印模式下把零值状态当成选了第一项。
			ov.Correct = opt.IsCorrect
			if st.Revealed && st.SelectedOption == i && !opt.IsCorrect {
				ov.UserChoice = true
			}
		}
		view.Options = append(view.Options, ov)
	}

	if view.Revealed && q.Explanation != "" {
		switch {
		case mode == ModePrintSolved:
			// 答案打印导出不走权益门控，与线上行为保持一致
			view.Explanation = &ExplanationView{Text: q.Explanation}
		case entitled:
			view.Explanation = &ExplanationView{Text: q.Explanation}
		default:
			view.Explanation = &ExplanationView{
				Locked:       true,
				CallToAction: lockedExplanationCTA,
			}
		}
	}

	return view
}

// RenderSet 渲染整组题目并平铺编号：普通题依次占号；passage 题干
// 出现一次不占号，随后子题逐个占用连续顶层题号。
func RenderSet(questions []model.PaperQuestion, states map[uint]QuestionState, mode RenderMode, entitled bool) RenderResult {
	result := RenderResult{
		Mode:  mode,
		Views: []QuestionView{},
	}

	number := 0
	for _, q := range questions {
		if q.QuestionType == model.QuestionPassage {
			stem := RenderQuestion(q, states[q.QuestionID], mode, entitled)
			stem.PassageStem = true
			result.Views = append(result.Views, stem)
			for _, child := range q.Children {
				number++
				view := RenderQuestion(child, states[child.QuestionID], mode, entitled)
				view.Number = number
				result.Views = append(result.Views, view)
				result.QuestionCount++
			}
			continue
		}

		number++
		view := RenderQuestion(q, states[q.QuestionID], mode, entitled)
		view.Number = number
		result.Views = append(result.Views, view)
		result.QuestionCount++
	}

	if len(result.Views) == 0 {
		result.Placeholder = "本试卷暂无题目"
	}

	// 阅读时长与题数都从渲染集合即时推导，不单独落库
	result.ReadTimeMinutes = (result.QuestionCount + 1) / 2

	return result
}

const (
	revealKeyPrefix = "reveal:"
	revealStateTTL  = 24 * time.Hour
)

// RenderService 串起揭示状态存取与整组渲染。
// 练习状态按查看者会话存在 Redis hash 里，HSetNX 保证
// “首答即定”的单向迁移在存储层原子成立。
type RenderService struct {
	Redis     *redis.Client
	Questions QuestionFinder
}

func NewRenderService(rdb *redis.Client, questions QuestionFinder) *RenderService {
	return &RenderService{Redis: rdb, Questions: questions}
}

func revealKey(sessionKey string) string {
	return revealKeyPrefix + sessionKey
}

// SelectOption 记录一次作答。已揭示的题目是终态：再次选择不改写
// 已记录的答案，返回的是最早那次选择。
func (s *RenderService) SelectOption(ctx context.Context, sessionKey string, questionID uint, optionIndex int) (QuestionState, error) {
	question, err := s.Questions.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuestionState{}, util.ErrQuestionNotFound
		}
		return QuestionState{}, err
	}
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		return QuestionState{}, fmt.Errorf("option index %d out of range for question %d", optionIndex, questionID)
	}
	key := revealKey(sessionKey)
	field := strconv.FormatUint(uint64(questionID), 10)

	if _, err := s.Redis.HSetNX(ctx, key, field, optionIndex).Result(); err != nil {
		return QuestionState{}, err
	}
	s.Redis.Expire(ctx, key, revealStateTTL)

	val, err := s.Redis.HGet(ctx, key, field).Result()
	if err != nil {
		return QuestionState{}, err
	}
	selected, err := strconv.Atoi(val)
	if err != nil {
		return QuestionState{}, err
	}
	return QuestionState{Revealed: true, SelectedOption: selected}, nil
}

// States 读取会话内全部揭示状态；Redis 不可用时退化为全未揭示，
// 渲染本身不因此失败。
func (s *RenderService) States(ctx context.Context, sessionKey string) map[uint]QuestionState {
	states := make(map[uint]QuestionState)
	if s.Redis == nil {
		return states
	}
	entries, err := s.Redis.HGetAll(ctx, revealKey(sessionKey)).Result()
	if err != nil {
		logger.Log.Warn("reveal state read failed", zap.String("session", sessionKey), zap.Error(err))
		return states
	}
	for field, val := range entries {
		qid, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			continue
		}
		selected, err := strconv.Atoi(val)
		if err != nil {
			continue
		}
		states[uint(qid)] = QuestionState{Revealed: true, SelectedOption: selected}
	}
	return states
}

// QuestionsFromLinks 把资源关联的题目转成渲染输入。
// 子题的父题缺失属于数据完整性问题，按独立题软性降级渲染，
// 不让整页崩掉。
func QuestionsFromLinks(links []model.ResourceQuestion) []model.PaperQuestion {
	questions := make([]model.PaperQuestion, 0, len(links))
	for _, link := range links {
		if link.Question == nil {
			continue
		}
		if link.Question.IsChild() {
			logger.Log.Warn("orphaned child question rendered standalone",
				zap.Uint("questionId", link.Question.ID),
				zap.Uintp("parentId", link.Question.ParentID))
		}
		questions = append(questions, SnapshotQuestion(link.Question))
	}
	return questions
}

// Render 渲染一组题目。未开通权益的查看者导出答案打印时记录一条
// 告警：解析门控在该路径被绕过是沿用的线上行为，先保持可见。
func (s *RenderService) Render(questions []model.PaperQuestion, states map[uint]QuestionState, mode RenderMode, entitled bool) RenderResult {
	if mode == ModePrintSolved && !entitled {
		logger.Log.Warn("solved print export by viewer without explanation entitlement")
	}
	if states == nil {
		states = map[uint]QuestionState{}
	}
	return RenderSet(questions, states, mode, entitled)
}
