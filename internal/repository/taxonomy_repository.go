package repository

import (
	"edu_portal_backend/internal/model"

	"gorm.io/gorm"
)

type TaxonomyRepository struct {
	DB *gorm.DB
}

func NewTaxonomyRepository(db *gorm.DB) *TaxonomyRepository {
	return &TaxonomyRepository{DB: db}
}

// 级联查询：不存在的父级ID返回空列表而不是错误

func (r *TaxonomyRepository) ListSegments() ([]model.Segment, error) {
	var segments []model.Segment
	err := r.DB.Order("title asc").Find(&segments).Error
	return segments, err
}

func (r *TaxonomyRepository) ListGroups(segmentID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.DB.Where("segment_id = ?", segmentID).Order("title asc").Find(&groups).Error
	return groups, err
}

func (r *TaxonomyRepository) ListSubjects(groupID uint) ([]model.Subject, error) {
	var subjects []model.Subject
	err := r.DB.Where("group_id = ?", groupID).Order("title asc").Find(&subjects).Error
	return subjects, err
}

func (r *TaxonomyRepository) FindSegmentByID(id uint) (*model.Segment, error) {
	var s model.Segment
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *TaxonomyRepository) FindGroupByID(id uint) (*model.Group, error) {
	var g model.Group
	err := r.DB.First(&g, id).Error
	return &g, err
}

func (r *TaxonomyRepository) FindSubjectByID(id uint) (*model.Subject, error) {
	var s model.Subject
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *TaxonomyRepository) CreateSegment(s *model.Segment) error {
	return r.DB.Create(s).Error
}

func (r *TaxonomyRepository) CreateGroup(g *model.Group) error {
	return r.DB.Create(g).Error
}

func (r *TaxonomyRepository) CreateSubject(s *model.Subject) error {
	return r.DB.Create(s).Error
}

func (r *TaxonomyRepository) DeleteSegment(id uint) error {
	return r.DB.Delete(&model.Segment{}, id).Error
}

func (r *TaxonomyRepository) DeleteGroup(id uint) error {
	return r.DB.Delete(&model.Group{}, id).Error
}

func (r *TaxonomyRepository) DeleteSubject(id uint) error {
	return r.DB.Delete(&model.Subject{}, id).Error
}
