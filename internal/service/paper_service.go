package service

import (
	"errors"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/util"

	"gorm.io/gorm"
)

// PaperService 已保存试卷的读取与删除。试卷保存后只读，
// 修改只能通过 AssemblerService.LoadPaper 重新进入组卷流程。
type PaperService struct {
	Repo *repository.PaperRepository
}

func NewPaperService(repo *repository.PaperRepository) *PaperService {
	return &PaperService{Repo: repo}
}

func (s *PaperService) Get(id uint) (*model.ExamPaper, error) {
	paper, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPaperNotFound
		}
		return nil, err
	}
	return paper, nil
}

func (s *PaperService) ListByUser(userID uint, page, limit int) ([]model.ExamPaper, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.Repo.ListByUser(userID, page, limit)
}

// Delete 只允许所有者删除自己的试卷
func (s *PaperService) Delete(userID, paperID uint) error {
	paper, err := s.Get(paperID)
	if err != nil {
		return err
	}
	if paper.UserID != userID {
		return util.ErrPermissionDenied
	}
	return s.Repo.Delete(paperID)
}
