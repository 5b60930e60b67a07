package exam

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// QuestionRow is one parsed row of a tabular question upload.
type QuestionRow struct {
	Prompt  string       `json:"question"`
	Type    QuestionType `json:"type"`
	Audio   string       `json:"audio"`
	Image   string       `json:"img"`
	Options OptionMap    `json:"options"`
	Answer  string       `json:"answer"`
}

var optionColumns = []string{"A", "B", "C", "D", "E"}

// ParseQuestionCSV reads a question upload: one header row, then one row per
// question. Recognized columns: question, type, audio, image, A..E,
// imgA..imgE, answer. Option labels with empty cells are omitted from the
// mapping, which keeps sparse option sets (true/false etc.) clean.
func ParseQuestionCSV(r io.Reader) ([]QuestionRow, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	hdr, err := cr.Read()
	if err != nil {
		return nil, err
	}
	idx := map[string]int{}
	for i, h := range hdr {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := idx["question"]; !ok {
		return nil, errors.New("missing column: question")
	}
	if _, ok := idx["type"]; !ok {
		return nil, errors.New("missing column: type")
	}

	cell := func(rec []string, name string) string {
		i, ok := idx[strings.ToLower(name)]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var rows []QuestionRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		row := QuestionRow{
			Prompt: cell(rec, "question"),
			Type:   QuestionType(strings.ToLower(cell(rec, "type"))),
			Audio:  cell(rec, "audio"),
			Image:  cell(rec, "image"),
			Answer: cell(rec, "answer"),
		}
		if row.Prompt == "" {
			continue
		}
		if !row.Type.Valid() {
			row.Type = TypeChoice
		}
		for _, label := range optionColumns {
			if v := cell(rec, label); v != "" {
				row.Options.Set(label, v)
			}
			if v := cell(rec, "img"+label); v != "" {
				row.Options.Set("img"+label, v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
