package sheets

import "fmt"

// recordsFromValues turns a raw value grid into header-keyed records.
// The first row is the header; short rows are padded with empty cells.
func recordsFromValues(values [][]interface{}) []map[string]string {
	if len(values) < 2 {
		return nil
	}

	headers := make([]string, len(values[0]))
	for i, cell := range values[0] {
		headers[i] = cellString(cell)
	}

	records := make([]map[string]string, 0, len(values)-1)
	for _, row := range values[1:] {
		record := make(map[string]string, len(headers))
		for i, header := range headers {
			if header == "" {
				continue
			}
			if i < len(row) {
				record[header] = cellString(row[i])
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}
	return fmt.Sprint(cell)
}
