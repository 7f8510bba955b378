package database

import (
	"fmt"
	"log"

	"edu_portal_backend/internal/config"
	"edu_portal_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.Segment{},
		&model.Group{},
		&model.Subject{},
		&model.Question{},
		&model.Option{},
		&model.Resource{},
		&model.ResourceQuestion{},
		&model.ExamPaper{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认三级分类（空库时播种，便于首次部署即可录题）
	var count int64
	db.Model(&model.Segment{}).Count(&count)
	if count == 0 {
		seedSegments := []struct {
			segment model.Segment
			groups  []struct {
				group    model.Group
				subjects []model.Subject
			}
		}{
			{
				segment: model.Segment{Title: "School", Slug: "school"},
				groups: []struct {
					group    model.Group
					subjects []model.Subject
				}{
					{
						group: model.Group{Title: "Class 9-10", Slug: "class-9-10"},
						subjects: []model.Subject{
							{Title: "Mathematics", Slug: "school-mathematics"},
							{Title: "Physics", Slug: "school-physics"},
							{Title: "English", Slug: "school-english"},
						},
					},
				},
			},
			{
				segment: model.Segment{Title: "Admission", Slug: "admission"},
				groups: []struct {
					group    model.Group
					subjects []model.Subject
				}{
					{
						group: model.Group{Title: "University", Slug: "university-admission"},
						subjects: []model.Subject{
							{Title: "General Knowledge", Slug: "admission-gk"},
							{Title: "Higher Math", Slug: "admission-higher-math"},
						},
					},
				},
			},
		}

		for _, seed := range seedSegments {
			segment := seed.segment
			db.Create(&segment)
			for _, g := range seed.groups {
				group := g.group
				group.SegmentID = segment.ID
				db.Create(&group)
				for _, subj := range g.subjects {
					subj.GroupID = group.ID
					subj.SegmentID = segment.ID
					db.Create(&subj)
				}
			}
		}
		log.Println("Default taxonomy seeded")
	}

	return db, nil
}
