package repository

import (
	"edu_portal_backend/internal/model"

	"gorm.io/gorm"
)

type PaperRepository struct {
	DB *gorm.DB
}

func NewPaperRepository(db *gorm.DB) *PaperRepository {
	return &PaperRepository{DB: db}
}

func (r *PaperRepository) Create(p *model.ExamPaper) error {
	return r.DB.Create(p).Error
}

func (r *PaperRepository) FindByID(id uint) (*model.ExamPaper, error) {
	var p model.ExamPaper
	err := r.DB.First(&p, id).Error
	return &p, err
}

func (r *PaperRepository) ListByUser(userID uint, page, limit int) ([]model.ExamPaper, int64, error) {
	var papers []model.ExamPaper
	var total int64
	query := r.DB.Model(&model.ExamPaper{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&papers).Error
	return papers, total, err
}

func (r *PaperRepository) Update(p *model.ExamPaper) error {
	return r.DB.Save(p).Error
}

func (r *PaperRepository) Delete(id uint) error {
	return r.DB.Delete(&model.ExamPaper{}, id).Error
}
