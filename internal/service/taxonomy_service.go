package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"edu_portal_backend/internal/model"
	"edu_portal_backend/internal/repository"
	"edu_portal_backend/internal/util"
	"edu_portal_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	taxonomyCachePrefix = "taxonomy:"
	taxonomyCacheTTL    = 10 * time.Minute
)

// TaxonomyService 三级分类的级联查询与维护。
// 纯过滤读：查不到的父级返回空列表，不报错。
type TaxonomyService struct {
	Repo  *repository.TaxonomyRepository
	Redis *redis.Client
}

func NewTaxonomyService(repo *repository.TaxonomyRepository, rdb *redis.Client) *TaxonomyService {
	return &TaxonomyService{Repo: repo, Redis: rdb}
}

func (s *TaxonomyService) cacheGet(ctx context.Context, key string, out interface{}) bool {
	if s.Redis == nil {
		return false
	}
	val, err := s.Redis.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("taxonomy cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	return json.Unmarshal([]byte(val), out) == nil
}

func (s *TaxonomyService) cacheSet(ctx context.Context, key string, val interface{}) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, taxonomyCacheTTL).Err(); err != nil {
		logger.Log.Warn("taxonomy cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (s *TaxonomyService) invalidate(ctx context.Context, keys ...string) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(ctx, keys...)
}

func (s *TaxonomyService) ListSegments(ctx context.Context) ([]model.Segment, error) {
	key := taxonomyCachePrefix + "segments"
	var segments []model.Segment
	if s.cacheGet(ctx, key, &segments) {
		return segments, nil
	}
	segments, err := s.Repo.ListSegments()
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, segments)
	return segments, nil
}

func (s *TaxonomyService) ListGroups(ctx context.Context, segmentID uint) ([]model.Group, error) {
	key := fmt.Sprintf("%sgroups:%d", taxonomyCachePrefix, segmentID)
	var groups []model.Group
	if s.cacheGet(ctx, key, &groups) {
		return groups, nil
	}
	groups, err := s.Repo.ListGroups(segmentID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, groups)
	return groups, nil
}

func (s *TaxonomyService) ListSubjects(ctx context.Context, groupID uint) ([]model.Subject, error) {
	key := fmt.Sprintf("%ssubjects:%d", taxonomyCachePrefix, groupID)
	var subjects []model.Subject
	if s.cacheGet(ctx, key, &subjects) {
		return subjects, nil
	}
	subjects, err := s.Repo.ListSubjects(groupID)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, subjects)
	return subjects, nil
}

type SegmentRequest struct {
	Title string `json:"title" binding:"required"`
	Slug  string `json:"slug" binding:"required"`
}

type GroupRequest struct {
	Title     string `json:"title" binding:"required"`
	Slug      string `json:"slug" binding:"required"`
	SegmentID uint   `json:"segmentId" binding:"required"`
}

type SubjectRequest struct {
	Title   string `json:"title" binding:"required"`
	Slug    string `json:"slug" binding:"required"`
	GroupID uint   `json:"groupId" binding:"required"`
}

func (s *TaxonomyService) CreateSegment(ctx context.Context, req SegmentRequest) (*model.Segment, error) {
	segment := &model.Segment{Title: req.Title, Slug: req.Slug}
	if err := s.Repo.CreateSegment(segment); err != nil {
		return nil, err
	}
	s.invalidate(ctx, taxonomyCachePrefix+"segments")
	return segment, nil
}

// CreateGroup 的父级必须是已存在的 Segment
func (s *TaxonomyService) CreateGroup(ctx context.Context, req GroupRequest) (*model.Group, error) {
	if _, err := s.Repo.FindSegmentByID(req.SegmentID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrInvalidParent
		}
		return nil, err
	}
	group := &model.Group{Title: req.Title, Slug: req.Slug, SegmentID: req.SegmentID}
	if err := s.Repo.CreateGroup(group); err != nil {
		return nil, err
	}
	s.invalidate(ctx, fmt.Sprintf("%sgroups:%d", taxonomyCachePrefix, req.SegmentID))
	return group, nil
}

// CreateSubject 的父级必须是已存在的 Group；SegmentID 从父级冗余而来
func (s *TaxonomyService) CreateSubject(ctx context.Context, req SubjectRequest) (*model.Subject, error) {
	group, err := s.Repo.FindGroupByID(req.GroupID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrInvalidParent
		}
		return nil, err
	}
	subject := &model.Subject{
		Title:     req.Title,
		Slug:      req.Slug,
		GroupID:   group.ID,
		SegmentID: group.SegmentID,
	}
	if err := s.Repo.CreateSubject(subject); err != nil {
		return nil, err
	}
	s.invalidate(ctx, fmt.Sprintf("%ssubjects:%d", taxonomyCachePrefix, group.ID))
	return subject, nil
}
