package service

import (
	"errors"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/util"
	"edu_portal_backend/pkg/logger"
	"edu_portal_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// LinkStore 关联行的持久化操作，生产实现是 repository.LinkRepository
type LinkStore interface {
	ListByResource(resourceID uint) ([]model.ResourceQuestion, error)
	Create(resourceID, questionID uint) (*model.ResourceQuestion, error)
	FindByID(id uint) (*model.ResourceQuestion, error)
	Delete(id uint) error
	Reorder(resourceID uint, orderedLinkIDs []uint) error
}

type QuestionFinder interface {
	FindByID(id uint) (*model.Question, error)
}

type ResourceFinder interface {
	FindByID(id uint) (*model.Resource, error)
}

// LinkService 维护资源与题库的有序多对多关联（文章配套练习）
type LinkService struct {
	LinkRepo     LinkStore
	QuestionRepo QuestionFinder
	ResourceRepo ResourceFinder
}

func NewLinkService(linkRepo *repository.LinkRepository, questionRepo *repository.QuestionRepository, resourceRepo *repository.ResourceRepository) *LinkService {
	return &LinkService{
		LinkRepo:     linkRepo,
		QuestionRepo: questionRepo,
		ResourceRepo: resourceRepo,
	}
}

// List 返回资源下的有序关联；资源不存在返回 ErrResourceNotFound，
// 与“资源存在但没有关联题目”（空列表）区分开。
func (s *LinkService) List(resourceID uint) ([]model.ResourceQuestion, error) {
	if _, err := s.ResourceRepo.FindByID(resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}

	links, err := s.LinkRepo.ListByResource(resourceID)
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []model.ResourceQuestion{}
	}
	return links, nil
}

// Link 挂载一道题到资源。序号在插入事务内取 MAX+1。
// 子题不可单独挂载，只能通过父题整体进入。
func (s *LinkService) Link(resourceID, questionID uint) (*model.ResourceQuestion, error) {
	if _, err := s.ResourceRepo.FindByID(resourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResourceNotFound
		}
		return nil, err
	}

	question, err := s.QuestionRepo.FindByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if question.IsChild() {
		return nil, util.ErrChildNotSelectable
	}

	link, err := s.LinkRepo.Create(resourceID, questionID)
	if err != nil {
		if repository.IsDuplicateEntry(err) {
			return nil, util.ErrDuplicateLink
		}
		return nil, err
	}

	monitoring.QuestionsLinked.Inc()
	return link, nil
}

type BulkLinkResult struct {
	Linked  []model.ResourceQuestion `json:"linked"`
	Skipped []uint                   `json:"skipped"` // 已挂载过的题目，跳过不中断
}

// BulkLink 批量挂载：重复项跳过并继续，其余错误中断
func (s *LinkService) BulkLink(resourceID uint, questionIDs []uint) (*BulkLinkResult, error) {
	result := &BulkLinkResult{
		Linked:  []model.ResourceQuestion{},
		Skipped: []uint{},
	}
	for _, qid := range questionIDs {
		link, err := s.Link(resourceID, qid)
		if err != nil {
			if errors.Is(err, util.ErrDuplicateLink) {
				result.Skipped = append(result.Skipped, qid)
				continue
			}
			return nil, err
		}
		result.Linked = append(result.Linked, *link)
	}
	if len(result.Skipped) > 0 {
		logger.Log.Info("bulk link skipped duplicates",
			zap.Uint("resourceId", resourceID),
			zap.Int("skipped", len(result.Skipped)))
	}
	return result, nil
}

// Unlink 只删关联行，题目本身不动
func (s *LinkService) Unlink(linkID uint) error {
	if _, err := s.LinkRepo.FindByID(linkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrLinkNotFound
		}
		return err
	}
	return s.LinkRepo.Delete(linkID)
}

// Reorder 重排资源下全部关联；传入的ID集合必须恰好覆盖现有关联
func (s *LinkService) Reorder(resourceID uint, orderedLinkIDs []uint) error {
	err := s.LinkRepo.Reorder(resourceID, orderedLinkIDs)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrLinkNotFound
	}
	return err
}
