// Package source decodes meal-log records from the backend and from local
// export files, and normalizes them into model entries.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// ParseResult holds the output of parsing a single export file.
type ParseResult struct {
	Meals       []RawMeal
	ParseErrors int
	Err         error
}

// ParseFile reads a meal export. Two shapes are accepted:
//
//   - a JSON array, as returned by GET /api/meallogs/by-firebase/{uid}
//   - JSONL, one record per line, as written by AppendFile
//
// In JSONL files later lines replace earlier lines with the same mealLogId
// and a line with "deleted":true removes the meal. Malformed lines are
// counted in ParseErrors and skipped.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	br := bufio.NewReaderSize(f, 64*1024)
	if first, ok := peekFirstByte(br); ok && first == '[' {
		var meals []RawMeal
		if err := json.NewDecoder(br).Decode(&meals); err != nil {
			return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Path, err)}
		}
		return ParseResult{Meals: meals}
	}
	return parseLines(br)
}

func parseLines(r io.Reader) ParseResult {
	var (
		result ParseResult
		order  []MealID
		latest = make(map[MealID]RawMeal)
	)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		meal, ok := decodeLine(line)
		if !ok {
			result.ParseErrors++
			continue
		}

		if _, seen := latest[meal.MealLogID]; !seen {
			order = append(order, meal.MealLogID)
		}
		latest[meal.MealLogID] = meal
	}
	if err := scanner.Err(); err != nil {
		result.Err = err
	}

	for _, id := range order {
		m := latest[id]
		if m.Deleted {
			continue
		}
		result.Meals = append(result.Meals, m)
	}
	return result
}

// decodeLine parses one JSONL record. Records must be objects with an id.
func decodeLine(line []byte) (RawMeal, bool) {
	if len(line) == 0 || line[0] != '{' {
		return RawMeal{}, false
	}
	var m RawMeal
	if err := json.Unmarshal(line, &m); err != nil {
		return RawMeal{}, false
	}
	if m.MealLogID == "" {
		return RawMeal{}, false
	}
	return m, true
}

func peekFirstByte(br *bufio.Reader) (byte, bool) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, false
		}
		switch b {
		case ' ', '\t', '\r', '\n':
			continue
		}
		_ = br.UnreadByte()
		return b, true
	}
}
