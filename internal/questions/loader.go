package questions

import (
	"encoding/csv"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

// Column names in the question data file.
const (
	ColQuestion = "question"
	ColCode     = "code"
	ColAnswer   = "answer"
)

func optionColumn(i int) string {
	return fmt.Sprintf("option_%d", i)
}

// Load opens the CSV file at path and parses it with Parse.
func Load(path string) ([]models.Question, error) {
	log := logger.Default().WithPrefix("questions")
	log.Debug("loading questions from %s", path)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open question file: %w", err)
	}
	defer f.Close()

	qs, err := Parse(f)
	if err != nil {
		log.Error("failed to parse %s: %v", path, err)
		return nil, err
	}
	log.Info("loaded %d questions from %s", len(qs), path)
	return qs, nil
}

// Parse reads a header row followed by one question per row.
// The question and answer columns are required; code and option_1..option_4 are optional.
// Rows are returned in file order.
func Parse(r io.Reader) ([]models.Question, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil, errors.NewDataFormatError(1, "missing header row")
		}
		return nil, csvError(err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{ColQuestion, ColAnswer} {
		if _, ok := cols[required]; !ok {
			return nil, errors.NewDataFormatError(1, fmt.Sprintf("missing required column %q", required))
		}
	}

	var out []models.Question
	for {
		record, err := reader.Read()
		if stderrors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(0)

		q, err := parseRow(cols, record, line)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

func parseRow(cols map[string]int, record []string, line int) (models.Question, error) {
	field := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return "", false
		}
		return record[i], true
	}

	text, ok := field(ColQuestion)
	if !ok {
		return models.Question{}, errors.NewDataFormatError(line, fmt.Sprintf("row has no %q value", ColQuestion))
	}
	answer, ok := field(ColAnswer)
	if !ok {
		return models.Question{}, errors.NewDataFormatError(line, fmt.Sprintf("row has no %q value", ColAnswer))
	}

	q := models.Question{
		Question: text,
		Options:  make([]string, 0, models.MaxOptions),
		Answer:   answer,
	}
	if code, ok := field(ColCode); ok && code != "" {
		q.Code = &code
	}
	for i := 1; i <= models.MaxOptions; i++ {
		if opt, ok := field(optionColumn(i)); ok && opt != "" {
			q.Options = append(q.Options, opt)
		}
	}
	return q, nil
}

func csvError(err error) error {
	var perr *csv.ParseError
	if stderrors.As(err, &perr) {
		return errors.NewDataFormatError(perr.StartLine, perr.Err.Error())
	}
	return fmt.Errorf("read question file: %w", err)
}
