package service

import (
	"errors"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionService(repo *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Repo: repo}
}

type QuestionSearchRequest struct {
	SegmentID uint   `form:"segmentId"`
	GroupID   uint   `form:"groupId"`
	SubjectID uint   `form:"subjectId"`
	Text      string `form:"text"`
	Limit     int    `form:"limit"`
}

type OptionRequest struct {
	OptionText string `json:"optionText" binding:"required"`
	IsCorrect  bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	QuestionText string             `json:"questionText" binding:"required"`
	QuestionType model.QuestionType `json:"questionType" binding:"required"`
	Marks        int                `json:"marks"`
	Explanation  string             `json:"explanation"`
	TopicTag     string             `json:"topicTag"`
	SegmentID    uint               `json:"segmentId"`
	GroupID      uint               `json:"groupId"`
	SubjectID    uint               `json:"subjectId"`
	Options      []OptionRequest    `json:"options"`
	Children     []QuestionRequest  `json:"children"`
}

// Search 题库检索：仅命中顶层题目，passage 题连同子题展开返回。
// 零命中返回空切片；存储层错误原样上抛，调用方据此区分
// “没有匹配”和“查询失败”，失败时保留上一份结果。
func (s *QuestionService) Search(req QuestionSearchRequest) ([]model.Question, error) {
	filter := repository.QuestionFilter{
		SegmentID: req.SegmentID,
		GroupID:   req.GroupID,
		SubjectID: req.SubjectID,
		Text:      req.Text,
	}
	questions, err := s.Repo.Search(filter, req.Limit)
	if err != nil {
		return nil, err
	}
	if questions == nil {
		questions = []model.Question{}
	}
	return questions, nil
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

// validateQuestionRequest 题目校验规则：
//   - mcq 至少一个正确选项（渲染支持多选正确，不假设恰好一个）
//   - passage 自身不带选项，子题不允许是 passage（树深不超过2）
//   - 分值缺省为1，不允许非正数
func validateQuestionRequest(req *QuestionRequest, isChild bool) error {
	if req.Marks <= 0 {
		req.Marks = 1
	}

	switch req.QuestionType {
	case model.QuestionMCQ:
		hasCorrect := false
		for _, opt := range req.Options {
			if opt.IsCorrect {
				hasCorrect = true
				break
			}
		}
		if !hasCorrect {
			return util.ErrNoCorrectOption
		}
	case model.QuestionWritten:
		// 主观题无选项约束
	case model.QuestionPassage:
		if isChild {
			return util.ErrInvalidParent
		}
		for i := range req.Children {
			if err := validateQuestionRequest(&req.Children[i], true); err != nil {
				return err
			}
		}
	default:
		return errors.New("unknown question type: " + string(req.QuestionType))
	}

	if isChild && len(req.Children) > 0 {
		return util.ErrInvalidParent
	}
	return nil
}

func buildQuestion(req *QuestionRequest) *model.Question {
	q := &model.Question{
		QuestionText: req.QuestionText,
		QuestionType: req.QuestionType,
		Marks:        req.Marks,
		Explanation:  req.Explanation,
		TopicTag:     req.TopicTag,
		SegmentID:    req.SegmentID,
		GroupID:      req.GroupID,
		SubjectID:    req.SubjectID,
	}
	for _, opt := range req.Options {
		q.Options = append(q.Options, model.Option{
			OptionText: opt.OptionText,
			IsCorrect:  opt.IsCorrect,
		})
	}
	return q
}

// buildQuestionTree 构造完整的待写入记录：主题目、选项、子题。
// 子题继承父题的分类。
func buildQuestionTree(req *QuestionRequest) *model.Question {
	q := buildQuestion(req)
	for i := range req.Children {
		child := req.Children[i]
		child.SegmentID = req.SegmentID
		child.GroupID = req.GroupID
		child.SubjectID = req.SubjectID
		q.Children = append(q.Children, *buildQuestion(&child))
	}
	return q
}

// Create 连同选项与子题一次写入
func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if err := validateQuestionRequest(&req, false); err != nil {
		return nil, err
	}

	q := buildQuestionTree(&req)
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(q.ID)
}

func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	existing, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if existing.IsChild() && len(req.Children) > 0 {
		return nil, util.ErrInvalidParent
	}
	if err := validateQuestionRequest(&req, existing.IsChild()); err != nil {
		return nil, err
	}

	// 与创建同构：子题随请求全量替换，不做增量合并
	updated := buildQuestionTree(&req)
	updated.ID = existing.ID
	updated.ParentID = existing.ParentID
	updated.CreatedAt = existing.CreatedAt
	if err := s.Repo.Update(updated); err != nil {
		return nil, err
	}
	return s.Repo.FindByID(id)
}

func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Repo.Delete(id)
}
