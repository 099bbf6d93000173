package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"lingua_backend/internal/model"

	"github.com/xuri/excelize/v2"
)

// WorkbookConfig 每行一道题，Correct 列为正确选项的序号（从 1 开始），
// OptionsColumn 及其后的非空单元格依次为选项
type WorkbookConfig struct {
	SheetName         string
	CourseColumn      string
	CourseImageColumn string
	UnitColumn        string
	UnitDescColumn    string
	LessonColumn      string
	TypeColumn        string
	QuestionColumn    string
	CorrectColumn     string
	OptionsColumn     string
	StartRow          int
}

func DefaultWorkbookConfig() WorkbookConfig {
	return WorkbookConfig{
		SheetName:         "Challenges",
		CourseColumn:      "A",
		CourseImageColumn: "B",
		UnitColumn:        "C",
		UnitDescColumn:    "D",
		LessonColumn:      "E",
		TypeColumn:        "F",
		QuestionColumn:    "G",
		CorrectColumn:     "H",
		OptionsColumn:     "I",
		StartRow:          2,
	}
}

// ParseWorkbook 按课程、单元、课时名称分组，顺序取首次出现的位置
func ParseWorkbook(r io.Reader, cfg WorkbookConfig) ([]*model.Course, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(cfg.SheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", cfg.SheetName, err)
	}

	var courses []*model.Course
	courseIdx := map[string]int{}
	unitIdx := map[string]int{}
	lessonIdx := map[string]int{}

	optionsStart, err := columnIndex(cfg.OptionsColumn)
	if err != nil {
		return nil, err
	}

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlank(row) {
			continue
		}

		courseTitle := cell(row, cfg.CourseColumn)
		unitTitle := cell(row, cfg.UnitColumn)
		lessonTitle := cell(row, cfg.LessonColumn)
		if courseTitle == "" || unitTitle == "" || lessonTitle == "" {
			return nil, fmt.Errorf("row %d: course, unit and lesson are required", rowNum)
		}

		ci, ok := courseIdx[courseTitle]
		if !ok {
			courses = append(courses, &model.Course{
				Title:    courseTitle,
				ImageSrc: imageOrDefault(cell(row, cfg.CourseImageColumn)),
			})
			ci = len(courses) - 1
			courseIdx[courseTitle] = ci
		}
		course := courses[ci]

		unitKey := courseTitle + "\x00" + unitTitle
		ui, ok := unitIdx[unitKey]
		if !ok {
			course.Units = append(course.Units, model.Unit{
				Title:       unitTitle,
				Description: cell(row, cfg.UnitDescColumn),
				Order:       len(course.Units) + 1,
			})
			ui = len(course.Units) - 1
			unitIdx[unitKey] = ui
		}
		unit := &course.Units[ui]

		lessonKey := unitKey + "\x00" + lessonTitle
		li, ok := lessonIdx[lessonKey]
		if !ok {
			unit.Lessons = append(unit.Lessons, model.Lesson{
				Title: lessonTitle,
				Order: len(unit.Lessons) + 1,
			})
			li = len(unit.Lessons) - 1
			lessonIdx[lessonKey] = li
		}
		lesson := &unit.Lessons[li]

		correct, err := strconv.Atoi(cell(row, cfg.CorrectColumn))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid correct option %q", rowNum, cell(row, cfg.CorrectColumn))
		}

		ch := model.Challenge{
			Type:     model.ChallengeType(strings.ToUpper(cell(row, cfg.TypeColumn))),
			Question: cell(row, cfg.QuestionColumn),
			Order:    len(lesson.Challenges) + 1,
		}
		for j := optionsStart; j < len(row); j++ {
			text := strings.TrimSpace(row[j])
			if text == "" {
				continue
			}
			ch.Options = append(ch.Options, model.ChallengeOption{
				Text:    text,
				Correct: len(ch.Options)+1 == correct,
			})
		}
		lesson.Challenges = append(lesson.Challenges, ch)
	}

	return courses, nil
}

func cell(row []string, column string) string {
	idx, err := columnIndex(column)
	if err != nil || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func columnIndex(column string) (int, error) {
	n, err := excelize.ColumnNameToNumber(column)
	if err != nil {
		return 0, err
	}
	return n - 1, nil
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
