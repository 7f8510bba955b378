package repository

import (
	"errors"

	"edu_portal_backend/internal/model"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

const mysqlDuplicateEntry = 1062

type LinkRepository struct {
	DB *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{DB: db}
}

// IsDuplicateEntry 判断是否唯一约束冲突（重复挂载同一题目）
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func (r *LinkRepository) ListByResource(resourceID uint) ([]model.ResourceQuestion, error) {
	var links []model.ResourceQuestion
	err := r.DB.Where("resource_id = ?", resourceID).
		Preload("Question").
		Preload("Question.Options").
		Preload("Question.Children").
		Preload("Question.Children.Options").
		Order("order_index asc").
		Find(&links).Error
	return links, err
}

// Create 在同一事务内计算 COALESCE(MAX(order_index),-1)+1 并插入，
// 避免并发编辑下基于过期读的序号竞争。
func (r *LinkRepository) Create(resourceID, questionID uint) (*model.ResourceQuestion, error) {
	link := &model.ResourceQuestion{
		ResourceID: resourceID,
		QuestionID: questionID,
	}
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var next int
		if err := tx.Model(&model.ResourceQuestion{}).
			Where("resource_id = ?", resourceID).
			Select("COALESCE(MAX(order_index), -1) + 1").
			Scan(&next).Error; err != nil {
			return err
		}
		link.OrderIndex = next
		return tx.Create(link).Error
	})
	if err != nil {
		return nil, err
	}
	return link, nil
}

func (r *LinkRepository) FindByID(id uint) (*model.ResourceQuestion, error) {
	var link model.ResourceQuestion
	err := r.DB.First(&link, id).Error
	return &link, err
}

// Delete 物理删除关联行，保证 (resource, question) 可重新挂载
func (r *LinkRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.ResourceQuestion{}, id).Error
}

// Reorder 按给定顺序重写 order_index。先整体平移避开唯一索引，
// 再落到最终序号，全程单事务。平移量取 MAX(order_index)+1：
// 解除关联会留下序号空洞，按行数平移可能撞上尚未更新的行
// （InnoDB 在单条 UPDATE 内逐行检查唯一性），按最大序号平移
// 则保证所有新值都高于任何旧值。
func (r *LinkRepository) Reorder(resourceID uint, orderedLinkIDs []uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ResourceQuestion{}).
			Where("resource_id = ?", resourceID).
			Count(&count).Error; err != nil {
			return err
		}
		if count != int64(len(orderedLinkIDs)) {
			return gorm.ErrRecordNotFound
		}

		var maxIndex int
		if err := tx.Model(&model.ResourceQuestion{}).
			Where("resource_id = ?", resourceID).
			Select("COALESCE(MAX(order_index), -1)").
			Scan(&maxIndex).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.ResourceQuestion{}).
			Where("resource_id = ?", resourceID).
			Update("order_index", gorm.Expr("order_index + ?", maxIndex+1)).Error; err != nil {
			return err
		}

		for i, linkID := range orderedLinkIDs {
			res := tx.Model(&model.ResourceQuestion{}).
				Where("id = ? AND resource_id = ?", linkID, resourceID).
				Update("order_index", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})
}
