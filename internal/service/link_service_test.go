package service

import (
	"testing"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/util"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeLinkStore 内存版关联存储，按 (resourceID, questionID) 去重，
// 重复插入返回 MySQL 1062，与真实唯一索引的行为一致。
type fakeLinkStore struct {
	links  []model.ResourceQuestion
	nextID uint
}

func (f *fakeLinkStore) ListByResource(resourceID uint) ([]model.ResourceQuestion, error) {
	var out []model.ResourceQuestion
	for _, l := range f.links {
		if l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLinkStore) Create(resourceID, questionID uint) (*model.ResourceQuestion, error) {
	for _, l := range f.links {
		if l.ResourceID == resourceID && l.QuestionID == questionID {
			return nil, &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
		}
	}
	f.nextID++
	link := model.ResourceQuestion{
		BaseModel:  model.BaseModel{ID: f.nextID},
		ResourceID: resourceID,
		QuestionID: questionID,
		OrderIndex: len(f.links),
	}
	f.links = append(f.links, link)
	return &link, nil
}

func (f *fakeLinkStore) FindByID(id uint) (*model.ResourceQuestion, error) {
	for i := range f.links {
		if f.links[i].ID == id {
			return &f.links[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLinkStore) Delete(id uint) error {
	for i := range f.links {
		if f.links[i].ID == id {
			f.links = append(f.links[:i], f.links[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeLinkStore) Reorder(resourceID uint, orderedLinkIDs []uint) error {
	return nil
}

type fakeQuestionFinder struct {
	questions map[uint]*model.Question
}

func (f *fakeQuestionFinder) FindByID(id uint) (*model.Question, error) {
	q, ok := f.questions[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return q, nil
}

type fakeResourceFinder struct {
	resources map[uint]*model.Resource
}

func (f *fakeResourceFinder) FindByID(id uint) (*model.Resource, error) {
	r, ok := f.resources[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func newLinkServiceFixture() (*LinkService, *fakeLinkStore) {
	parentID := uint(1)
	store := &fakeLinkStore{}
	svc := &LinkService{
		LinkRepo: store,
		QuestionRepo: &fakeQuestionFinder{questions: map[uint]*model.Question{
			1: {BaseModel: model.BaseModel{ID: 1}, QuestionText: "阅读下文", QuestionType: model.QuestionPassage},
			2: {BaseModel: model.BaseModel{ID: 2}, QuestionText: "选出正确项", QuestionType: model.QuestionMCQ},
			3: {BaseModel: model.BaseModel{ID: 3}, QuestionText: "子题", QuestionType: model.QuestionMCQ, ParentID: &parentID},
		}},
		ResourceRepo: &fakeResourceFinder{resources: map[uint]*model.Resource{
			10: {BaseModel: model.BaseModel{ID: 10}, Title: "示例文章"},
		}},
	}
	return svc, store
}

func TestLinkDuplicateReturnsTypedError(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	_, err := svc.Link(10, 1)
	require.NoError(t, err)

	_, err = svc.Link(10, 1)
	assert.ErrorIs(t, err, util.ErrDuplicateLink)
}

func TestLinkRejectsChildQuestion(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	_, err := svc.Link(10, 3)
	assert.ErrorIs(t, err, util.ErrChildNotSelectable)
}

func TestLinkUnknownResource(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	_, err := svc.Link(99, 1)
	assert.ErrorIs(t, err, util.ErrResourceNotFound)
}

// 批量挂载：已挂载过的题目跳过并继续，后续题目照常入链
func TestBulkLinkSkipsDuplicatesAndContinues(t *testing.T) {
	svc, store := newLinkServiceFixture()

	_, err := svc.Link(10, 1)
	require.NoError(t, err)

	result, err := svc.BulkLink(10, []uint{1, 2})
	require.NoError(t, err)

	assert.Equal(t, []uint{1}, result.Skipped)
	require.Len(t, result.Linked, 1)
	assert.Equal(t, uint(2), result.Linked[0].QuestionID)
	assert.Len(t, store.links, 2)
}

func TestBulkLinkAbortsOnMissingQuestion(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	_, err := svc.BulkLink(10, []uint{2, 404})
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)
}

func TestListUnknownResource(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	_, err := svc.List(99)
	assert.ErrorIs(t, err, util.ErrResourceNotFound)
}

func TestListEmptyReturnsEmptySlice(t *testing.T) {
	svc, _ := newLinkServiceFixture()

	links, err := svc.List(10)
	require.NoError(t, err)
	assert.NotNil(t, links)
	assert.Empty(t, links)
}
