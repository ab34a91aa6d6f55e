package batch

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"topicsearch.com/oqs/engine"
)

// Question is one "Topic: question text" input line.
type Question struct {
	Topic string
	Text  string
}

// Batch is the parsed form of one complete input: topology first, then all
// questions, then all queries.
type Batch struct {
	TopicCount int
	Tree       string
	Questions  []Question
	Queries    []engine.Query
}

const maxLineBytes = 1 << 24

// Read parses a raw batch. Layout: topic count, flattened tree line,
// question count, question lines, query count, query lines.
func Read(r io.Reader) (*Batch, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	topicCount, err := readCount(scanner, "topic count")
	if err != nil {
		return nil, err
	}
	if !scanner.Scan() {
		return nil, scanFailure(scanner, "flattened tree line")
	}
	parsed := &Batch{
		TopicCount: topicCount,
		Tree:       scanner.Text(),
	}

	questionCount, err := readCount(scanner, "question count")
	if err != nil {
		return nil, err
	}
	parsed.Questions = make([]Question, 0, questionCount)
	for i := 0; i < questionCount; i++ {
		if !scanner.Scan() {
			return nil, scanFailure(scanner, fmt.Sprintf("question line %d", i+1))
		}
		question, err := parseQuestion(scanner.Text())
		if err != nil {
			return nil, err
		}
		parsed.Questions = append(parsed.Questions, question)
	}

	queryCount, err := readCount(scanner, "query count")
	if err != nil {
		return nil, err
	}
	parsed.Queries = make([]engine.Query, 0, queryCount)
	for i := 0; i < queryCount; i++ {
		if !scanner.Scan() {
			return nil, scanFailure(scanner, fmt.Sprintf("query line %d", i+1))
		}
		query, err := parseQuery(scanner.Text(), i)
		if err != nil {
			return nil, err
		}
		parsed.Queries = append(parsed.Queries, query)
	}
	return parsed, nil
}

// ReadString parses a raw batch held in memory.
func ReadString(text string) (*Batch, error) {
	return Read(strings.NewReader(text))
}

// FormatResults renders one count per line in arrival order.
func FormatResults(results []int) string {
	var builder strings.Builder
	for _, count := range results {
		builder.WriteString(strconv.Itoa(count))
		builder.WriteByte('\n')
	}
	return builder.String()
}

func readCount(scanner *bufio.Scanner, what string) (int, error) {
	if !scanner.Scan() {
		return 0, scanFailure(scanner, what)
	}
	count, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", what, scanner.Text(), err)
	}
	if count < 0 {
		return 0, fmt.Errorf("negative %s %d", what, count)
	}
	return count, nil
}

// parseQuestion splits "Topic: question text" at the first colon.
func parseQuestion(line string) (Question, error) {
	sep := strings.IndexByte(line, ':')
	if sep < 0 || sep+2 > len(line) {
		return Question{}, fmt.Errorf("malformed question line %q", line)
	}
	return Question{Topic: line[:sep], Text: line[sep+2:]}, nil
}

// parseQuery splits "Topic prefix text" at the first space; everything
// after it, spaces included, is the prefix.
func parseQuery(line string, arrival int) (engine.Query, error) {
	sep := strings.IndexByte(line, ' ')
	if sep < 0 {
		return engine.Query{}, fmt.Errorf("malformed query line %q", line)
	}
	return engine.Query{Topic: line[:sep], Prefix: line[sep+1:], Arrival: arrival}, nil
}

func scanFailure(scanner *bufio.Scanner, what string) error {
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", what, err)
	}
	return fmt.Errorf("batch input ended before %s", what)
}
