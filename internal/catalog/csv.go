package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// LoadCoursesFile reads a course catalog CSV from disk.
func LoadCoursesFile(path string) ([]Course, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	courses, err := LoadCourses(f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return courses, nil
}

// LoadCourses parses a course catalog CSV. The header row names the
// columns; id, title, description, and link map to the core fields and any
// other column lands in the metadata bag. Rows without an id are skipped.
func LoadCourses(r io.Reader) ([]Course, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(header[i]))
	}

	var courses []Course
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		var c Course
		for i, value := range record {
			if i >= len(header) {
				break
			}
			value = strings.TrimSpace(value)
			switch header[i] {
			case "id", "course_id":
				c.ID = value
			case "title", "name", "lesson_title":
				c.Title = value
			case "description":
				c.Description = value
			case "link", "url":
				c.Link = value
			default:
				if value != "" {
					if c.Metadata == nil {
						c.Metadata = make(map[string]any)
					}
					c.Metadata[header[i]] = value
				}
			}
		}
		if c.ID == "" {
			continue
		}
		courses = append(courses, c)
	}
	return courses, nil
}
