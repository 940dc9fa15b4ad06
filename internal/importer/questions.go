// Package importer loads content into the question bank: multiple-choice
// questions from spreadsheet or CSV files, and topic learning kits from
// schema-validated JSON documents.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/mquinones/prepterm/internal/catalog"
	"github.com/mquinones/prepterm/internal/content"
	"github.com/mquinones/prepterm/internal/store"
)

// QuestionConfig defines the column layout of a question import file.
type QuestionConfig struct {
	FilePath          string
	SheetName         string
	StartRow          int // 1-based first data row
	CourseColumn      string
	UnitColumn        string
	TopicColumn       string
	PromptColumn      string
	OptionColumns     map[catalog.OptionKey]string
	CorrectColumn     string
	DifficultyColumn  string
	ExplanationColumn string // JSON explanation payload, optional
	ErrorColumn       string // "common error" text, optional
	VerifyColumn      string // verification text, optional
}

// DefaultQuestionConfig returns the standard column layout.
func DefaultQuestionConfig(path string) QuestionConfig {
	return QuestionConfig{
		FilePath:     path,
		SheetName:    "Sheet1",
		StartRow:     2,
		CourseColumn: "A",
		UnitColumn:   "B",
		TopicColumn:  "C",
		PromptColumn: "D",
		OptionColumns: map[catalog.OptionKey]string{
			catalog.OptionA: "E",
			catalog.OptionB: "F",
			catalog.OptionC: "G",
			catalog.OptionD: "H",
			catalog.OptionE: "I",
		},
		CorrectColumn:     "J",
		DifficultyColumn:  "K",
		ExplanationColumn: "L",
		ErrorColumn:       "M",
		VerifyColumn:      "N",
	}
}

// Result summarizes an import run. Row-level failures go to Errors and do
// not abort the run.
type Result struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportQuestions reads questions from an .xlsx or .csv file and inserts
// them into the store, creating catalog entries on demand.
func ImportQuestions(ctx context.Context, s *store.Store, config QuestionConfig) (*Result, error) {
	var rows [][]string
	var err error
	if strings.EqualFold(filepath.Ext(config.FilePath), ".csv") {
		rows, err = readCSVRows(config.FilePath)
	} else {
		rows, err = readSheetRows(config.FilePath, config.SheetName)
	}
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: make([]string, 0)}
	cache := newCatalogCache(s)

	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if rowEmpty(row) {
			continue
		}
		result.TotalProcessed++

		if err := importQuestionRow(ctx, cache, config, row); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			continue
		}
		result.Created++
	}
	return result, nil
}

func importQuestionRow(ctx context.Context, cache *catalogCache, config QuestionConfig, row []string) error {
	courseName := cell(row, config.CourseColumn)
	unitName := cell(row, config.UnitColumn)
	topicName := cell(row, config.TopicColumn)
	prompt := cell(row, config.PromptColumn)

	if courseName == "" || unitName == "" || topicName == "" {
		return fmt.Errorf("course, unit and topic are required")
	}
	if prompt == "" {
		return fmt.Errorf("prompt is required")
	}

	courseID, unitID, topicID, err := cache.resolve(ctx, courseName, unitName, topicName)
	if err != nil {
		return err
	}

	options := make(map[catalog.OptionKey]string)
	for key, col := range config.OptionColumns {
		if v := cell(row, col); v != "" {
			options[key] = v
		}
	}

	q := catalog.Question{
		CourseID:      courseID,
		UnitID:        unitID,
		TopicID:       topicID,
		Prompt:        prompt,
		Options:       options,
		CorrectOption: catalog.OptionKey(strings.ToUpper(cell(row, config.CorrectColumn))),
		Difficulty:    parseDifficulty(cell(row, config.DifficultyColumn)),
		SourceType:    "import",
		SourceRef:     filepath.Base(config.FilePath),
		ErrorCommon:   cell(row, config.ErrorColumn),
		Verification:  cell(row, config.VerifyColumn),
	}

	if raw := cell(row, config.ExplanationColumn); raw != "" {
		var p content.Payload
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			return fmt.Errorf("explanation is not valid JSON: %w", err)
		}
		q.Explanation = &p
	}

	if _, err := cache.store.InsertQuestion(ctx, q); err != nil {
		return err
	}
	return nil
}

func readSheetRows(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// catalogCache memoizes course/unit/topic lookups within one import run.
type catalogCache struct {
	store   *store.Store
	courses map[string]string
	units   map[string]string
	topics  map[string]string
}

func newCatalogCache(s *store.Store) *catalogCache {
	return &catalogCache{
		store:   s,
		courses: make(map[string]string),
		units:   make(map[string]string),
		topics:  make(map[string]string),
	}
}

func (c *catalogCache) resolve(ctx context.Context, courseName, unitName, topicName string) (courseID, unitID, topicID string, err error) {
	courseSlug := Slugify(courseName)
	courseID, ok := c.courses[courseSlug]
	if !ok {
		courseID, err = c.store.EnsureCourse(ctx, courseName, courseSlug)
		if err != nil {
			return "", "", "", err
		}
		c.courses[courseSlug] = courseID
	}

	unitSlug := Slugify(unitName)
	unitKey := courseSlug + "/" + unitSlug
	unitID, ok = c.units[unitKey]
	if !ok {
		unitID, err = c.store.EnsureUnit(ctx, courseID, unitName, unitSlug)
		if err != nil {
			return "", "", "", err
		}
		c.units[unitKey] = unitID
	}

	topicSlug := Slugify(topicName)
	topicKey := unitKey + "/" + topicSlug
	topicID, ok = c.topics[topicKey]
	if !ok {
		topicID, err = c.store.EnsureTopic(ctx, unitID, topicName, topicSlug)
		if err != nil {
			return "", "", "", err
		}
		c.topics[topicKey] = topicID
	}
	return courseID, unitID, topicID, nil
}

// Slugify lowercases a display name and keeps only letters, digits and
// single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func parseDifficulty(s string) catalog.Difficulty {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "easy":
		return catalog.DifficultyEasy
	case "hard":
		return catalog.DifficultyHard
	default:
		return catalog.DifficultyMedium
	}
}

// cell returns the trimmed value at a column letter, "" when the column is
// unset or the row is short.
func cell(row []string, column string) string {
	if column == "" {
		return ""
	}
	idx := columnIndex(column)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func columnIndex(column string) int {
	column = strings.ToUpper(column)
	idx := 0
	for i := 0; i < len(column); i++ {
		idx = idx*26 + int(column[i]-'A'+1)
	}
	return idx - 1
}

func rowEmpty(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
