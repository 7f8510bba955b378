package repository

import (
	"edu_portal_backend/internal/model"

	"gorm.io/gorm"
)

// DefaultSearchLimit 题库搜索结果上限。这是刻意设置的天花板而非分页游标，
// 完整浏览需要不断收窄过滤条件。
const DefaultSearchLimit = 50

type QuestionFilter struct {
	SegmentID uint
	GroupID   uint
	SubjectID uint
	Text      string
}

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Search 只返回顶层题目（子题不可独立检索），预加载选项；
// passage 题同时展开子题及其选项。按创建时间倒序。
func (r *QuestionRepository) Search(filter QuestionFilter, limit int) ([]model.Question, error) {
	if limit <= 0 || limit > DefaultSearchLimit {
		limit = DefaultSearchLimit
	}

	query := r.DB.Model(&model.Question{}).Where("parent_id IS NULL")
	if filter.SegmentID > 0 {
		query = query.Where("segment_id = ?", filter.SegmentID)
	}
	if filter.GroupID > 0 {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if filter.SubjectID > 0 {
		query = query.Where("subject_id = ?", filter.SubjectID)
	}
	if filter.Text != "" {
		// MySQL 默认 collation 下 LIKE 即不区分大小写的包含匹配
		query = query.Where("question_text LIKE ?", "%"+filter.Text+"%")
	}

	var questions []model.Question
	err := query.
		Preload("Options").
		Preload("Children").
		Preload("Children.Options").
		Order("created_at desc").
		Limit(limit).
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.
		Preload("Options").
		Preload("Children").
		Preload("Children.Options").
		First(&q, id).Error
	return &q, err
}

// Create 连同选项与子题一起写入（gorm 级联创建关联）
func (r *QuestionRepository) Create(q *model.Question) error {
	return r.DB.Create(q).Error
}

// Update 全量替换选项与子题后保存主记录。passage 题的子题
// 随请求整体重建，不做增量合并。
func (r *QuestionRepository) Update(q *model.Question) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var childIDs []uint
		if err := tx.Model(&model.Question{}).Where("parent_id = ?", q.ID).Pluck("id", &childIDs).Error; err != nil {
			return err
		}
		owners := append(childIDs, q.ID)
		if err := tx.Where("question_id IN ?", owners).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		if len(childIDs) > 0 {
			if err := tx.Delete(&model.Question{}, "id IN ?", childIDs).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(q).Error
	})
}

// Delete 删除题目及其选项；passage 题连同子题一并删除
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var childIDs []uint
		if err := tx.Model(&model.Question{}).Where("parent_id = ?", id).Pluck("id", &childIDs).Error; err != nil {
			return err
		}
		ids := append(childIDs, id)
		if err := tx.Where("question_id IN ?", ids).Delete(&model.Option{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, "id IN ?", ids).Error
	})
}
