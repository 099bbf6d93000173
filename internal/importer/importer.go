package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lingua_backend/internal/model"
	"lingua_backend/pkg/logger"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// CourseImporter 校验并以单个事务写入整棵课程树
type CourseImporter interface {
	ImportCourse(ctx context.Context, course *model.Course) error
}

// ImportResult 导入统计，单门课程失败不影响其他课程
type ImportResult struct {
	Courses    int
	Challenges int
	Errors     []string
}

type Importer struct {
	Courses  CourseImporter
	Workbook WorkbookConfig
}

func New(courses CourseImporter) *Importer {
	return &Importer{Courses: courses, Workbook: DefaultWorkbookConfig()}
}

// ImportFile 根据扩展名选择 YAML 或 Excel 解析
func (i *Importer) ImportFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open content file: %w", err)
	}
	defer f.Close()

	var courses []*model.Course
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		courses, err = ParseYAML(f)
	case ".xlsx":
		courses, err = ParseWorkbook(f, i.Workbook)
	default:
		return nil, fmt.Errorf("unsupported content file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	return i.Import(ctx, courses), nil
}

func (i *Importer) Import(ctx context.Context, courses []*model.Course) *ImportResult {
	result := &ImportResult{Errors: make([]string, 0)}
	for _, course := range courses {
		if err := i.Courses.ImportCourse(ctx, course); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("course %q: %v", course.Title, err))
			logger.Log.Warn("Course import failed", zap.String("title", course.Title), zap.Error(err))
			continue
		}
		result.Courses++
		result.Challenges += countChallenges(course)
	}
	return result
}

func countChallenges(course *model.Course) int {
	n := 0
	for _, u := range course.Units {
		for _, l := range u.Lessons {
			n += len(l.Challenges)
		}
	}
	return n
}

type seedFile struct {
	Courses []courseSeed `yaml:"courses"`
}

type courseSeed struct {
	Title    string     `yaml:"title"`
	ImageSrc string     `yaml:"imageSrc"`
	Units    []unitSeed `yaml:"units"`
}

type unitSeed struct {
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Lessons     []lessonSeed `yaml:"lessons"`
}

type lessonSeed struct {
	Title      string          `yaml:"title"`
	Challenges []challengeSeed `yaml:"challenges"`
}

type challengeSeed struct {
	Type     string       `yaml:"type"`
	Question string       `yaml:"question"`
	Options  []optionSeed `yaml:"options"`
}

type optionSeed struct {
	Text     string `yaml:"text"`
	Correct  bool   `yaml:"correct"`
	ImageSrc string `yaml:"imageSrc"`
	AudioSrc string `yaml:"audioSrc"`
}

// ParseYAML 排序字段按出现顺序从 1 开始生成
func ParseYAML(r io.Reader) ([]*model.Course, error) {
	var seed seedFile
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil {
		return nil, fmt.Errorf("parse seed yaml: %w", err)
	}

	courses := make([]*model.Course, 0, len(seed.Courses))
	for _, cs := range seed.Courses {
		course := &model.Course{Title: cs.Title, ImageSrc: imageOrDefault(cs.ImageSrc)}
		for ui, us := range cs.Units {
			unit := model.Unit{Title: us.Title, Description: us.Description, Order: ui + 1}
			for li, ls := range us.Lessons {
				lesson := model.Lesson{Title: ls.Title, Order: li + 1}
				for ci, chs := range ls.Challenges {
					ch := model.Challenge{
						Type:     model.ChallengeType(strings.ToUpper(chs.Type)),
						Question: chs.Question,
						Order:    ci + 1,
					}
					for _, opt := range chs.Options {
						ch.Options = append(ch.Options, model.ChallengeOption{
							Text:     opt.Text,
							Correct:  opt.Correct,
							ImageSrc: opt.ImageSrc,
							AudioSrc: opt.AudioSrc,
						})
					}
					lesson.Challenges = append(lesson.Challenges, ch)
				}
				unit.Lessons = append(unit.Lessons, lesson)
			}
			course.Units = append(course.Units, unit)
		}
		courses = append(courses, course)
	}
	return courses, nil
}

func imageOrDefault(src string) string {
	if strings.TrimSpace(src) == "" {
		return model.DefaultUserImage
	}
	return src
}
