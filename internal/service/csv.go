package service

import "strings"

// CSVRow is one accepted row of a CSV import.
type CSVRow struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// header labels that mark line 0 as a header row.
var urlLabels = map[string]bool{"url": true, "link": true, "product url": true}
var nameLabels = map[string]bool{"name": true, "product name": true, "title": true}

// ParseCSV splits text into rows of {url, name}. If the first non-blank
// line contains a known URL column label it is treated as a header and the
// URL and name columns are located by label; otherwise column 0 of every
// line is the URL. Rows whose URL field is empty or not http(s) are
// silently dropped.
//
// Quoted commas within a field are not handled beyond stripping a single
// leading/trailing quote character. Known limitation.
func ParseCSV(text string) []CSVRow {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimSpace(line))
		}
	}

	rows := []CSVRow{}
	urlIndex := 0
	nameIndex := -1

	for i, line := range lines {
		parts := strings.Split(line, ",")
		for j := range parts {
			parts[j] = stripQuotes(strings.TrimSpace(parts[j]))
		}

		if i == 0 {
			lower := make([]string, len(parts))
			for j, p := range parts {
				lower[j] = strings.ToLower(p)
			}
			if header := findLabel(lower, urlLabels); header >= 0 {
				urlIndex = header
				nameIndex = findLabel(lower, nameLabels)
				continue
			}
		}

		if urlIndex >= len(parts) || parts[urlIndex] == "" {
			continue
		}
		url := parts[urlIndex]
		if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
			continue
		}

		name := ""
		if nameIndex >= 0 && nameIndex < len(parts) {
			name = parts[nameIndex]
		}
		rows = append(rows, CSVRow{URL: url, Name: name})
	}

	return rows
}

// stripQuotes removes a single leading and trailing quote character.
func stripQuotes(s string) string {
	if len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	if len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return s
}

func findLabel(fields []string, labels map[string]bool) int {
	for i, f := range fields {
		if labels[f] {
			return i
		}
	}
	return -1
}
