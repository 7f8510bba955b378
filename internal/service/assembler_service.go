package service

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/util"
	"edu_portal_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// AssemblerService 按编辑者维护内存中的组卷会话。
// 互斥锁只负责隔离不同编辑者；单个会话内的操作都是本地同步改动，
// 只有 Save 产生一次写库。
type AssemblerService struct {
	PaperRepo    *repository.PaperRepository
	QuestionRepo *repository.QuestionRepository

	mu     sync.Mutex
	drafts map[uint]*PaperDraft
}

func NewAssemblerService(paperRepo *repository.PaperRepository, questionRepo *repository.QuestionRepository) *AssemblerService {
	return &AssemblerService{
		PaperRepo:    paperRepo,
		QuestionRepo: questionRepo,
		drafts:       make(map[uint]*PaperDraft),
	}
}

func (s *AssemblerService) draftFor(userID uint) *PaperDraft {
	if d, ok := s.drafts[userID]; ok {
		return d
	}
	d := NewPaperDraft()
	s.drafts[userID] = d
	return d
}

// Draft 返回当前会话的副本视图
func (s *AssemblerService) Draft(userID uint) PaperDraft {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.draftFor(userID)
	out := PaperDraft{
		Questions:  make([]model.PaperQuestion, len(d.Questions)),
		TotalMarks: d.TotalMarks,
	}
	copy(out.Questions, d.Questions)
	return out
}

// AddQuestion 选题入卷。子题不可独立入卷。重复加入是幂等 no-op。
func (s *AssemblerService) AddQuestion(userID, questionID uint) (PaperDraft, error) {
	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaperDraft{}, util.ErrQuestionNotFound
		}
		return PaperDraft{}, err
	}
	if question.IsChild() {
		return PaperDraft{}, util.ErrChildNotSelectable
	}

	snap := SnapshotQuestion(question)

	s.mu.Lock()
	s.draftFor(userID).Add(snap)
	s.mu.Unlock()

	return s.Draft(userID), nil
}

func (s *AssemblerService) RemoveQuestion(userID, questionID uint) PaperDraft {
	s.mu.Lock()
	s.draftFor(userID).Remove(questionID)
	s.mu.Unlock()
	return s.Draft(userID)
}

func (s *AssemblerService) Clear(userID uint) {
	s.mu.Lock()
	delete(s.drafts, userID)
	s.mu.Unlock()
}

type SavePaperRequest struct {
	Title            string `json:"title"`
	InstituteName    string `json:"instituteName"`
	Duration         string `json:"duration"`
	Instructions     string `json:"instructions"`
	ShowInstructions bool   `json:"showInstructions"`
	ShowWatermark    bool   `json:"showWatermark"`
}

// Save 校验标题后把当前选题快照落库为 ExamPaper，成功则清空会话。
// 标题为空是本地校验失败，在任何网络调用之前直接返回。
// 空卷允许保存（渲染端负责给出“无题目”占位）。
func (s *AssemblerService) Save(userID uint, req SavePaperRequest) (*model.ExamPaper, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, util.ErrEmptyPaperTitle
	}

	s.mu.Lock()
	draft := s.draftFor(userID)
	questions := make([]model.PaperQuestion, len(draft.Questions))
	copy(questions, draft.Questions)
	totalMarks := draft.TotalMarks
	s.mu.Unlock()

	questionsJSON, err := json.Marshal(questions)
	if err != nil {
		return nil, err
	}
	settingsJSON, err := json.Marshal(model.PaperSettings{
		Instructions:     req.Instructions,
		ShowInstructions: req.ShowInstructions,
		ShowWatermark:    req.ShowWatermark,
	})
	if err != nil {
		return nil, err
	}

	paper := &model.ExamPaper{
		UserID:        userID,
		Title:         strings.TrimSpace(req.Title),
		InstituteName: req.InstituteName,
		Duration:      req.Duration,
		TotalMarks:    totalMarks,
		Questions:     questionsJSON,
		Settings:      settingsJSON,
	}
	if err := s.PaperRepo.Create(paper); err != nil {
		return nil, err
	}

	s.Clear(userID)
	monitoring.PapersSaved.Inc()
	return paper, nil
}

// LoadPaper 编辑已保存的试卷：把快照读回会话，重新进入组卷模式。
// 快照里的题目按保存时的状态回放，不回表取最新版本。
func (s *AssemblerService) LoadPaper(userID, paperID uint) (PaperDraft, error) {
	paper, err := s.PaperRepo.FindByID(paperID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PaperDraft{}, util.ErrPaperNotFound
		}
		return PaperDraft{}, err
	}
	if paper.UserID != userID {
		return PaperDraft{}, util.ErrPermissionDenied
	}

	questions, err := paper.QuestionList()
	if err != nil {
		return PaperDraft{}, err
	}

	draft := NewPaperDraft()
	for _, q := range questions {
		draft.Add(q)
	}

	s.mu.Lock()
	s.drafts[userID] = draft
	s.mu.Unlock()

	return s.Draft(userID), nil
}
