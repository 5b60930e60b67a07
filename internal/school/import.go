package school

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseStudentCSV reads a student account upload: columns nis, name, major,
// grade, class, username, password. Rows missing a username are skipped.
func ParseStudentCSV(r io.Reader) ([]NewUser, error) {
	return parseUserCSV(r, func(cell func(string) string) NewUser {
		return NewUser{
			NIS:      cell("nis"),
			Name:     cell("name"),
			Major:    cell("major"),
			Grade:    cell("grade"),
			Class:    cell("class"),
			Username: cell("username"),
			Password: cell("password"),
		}
	})
}

// ParseTeacherCSV reads a teacher account upload: columns name, subject,
// username, password, phone.
func ParseTeacherCSV(r io.Reader) ([]NewUser, error) {
	return parseUserCSV(r, func(cell func(string) string) NewUser {
		return NewUser{
			Name:     cell("name"),
			Subject:  cell("subject"),
			Username: cell("username"),
			Password: cell("password"),
			Phone:    cell("phone"),
		}
	})
}

func parseUserCSV(r io.Reader, build func(cell func(string) string) NewUser) ([]NewUser, error) {
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
	for _, k := range []string{"username", "password"} {
		if _, ok := idx[k]; !ok {
			return nil, errors.New("missing column: " + k)
		}
	}
	var rows []NewUser
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		cell := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}
		row := build(cell)
		if row.Username == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
