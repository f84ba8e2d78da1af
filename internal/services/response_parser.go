package services

import (
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"alfredoptarigan/resume-screener/internal/models"
)

const (
	UnknownCandidateName  = "Unknown"
	UnknownCandidateEmail = "N/A"
	NoExplanation         = "No explanation provided."
)

var (
	nameKeys        = []string{"Candidate Name", "candidate_name", "name"}
	emailKeys       = []string{"Email", "candidate_email", "email"}
	scoreKeys       = []string{"Fit Score", "fit_score", "match_score", "score"}
	fitKeys         = []string{"Fit", "fit"}
	matchedKeys     = []string{"Matched Skills", "matching_skills", "matched_skills"}
	missingKeys     = []string{"Missing Skills", "missing_skills"}
	explanationKeys = []string{"Explanation", "explanation", "summary"}
)

// parsedResponse is either okResponse or malformedResponse.
type parsedResponse interface {
	parsed()
}

type okResponse struct {
	fields map[string]any
}

type malformedResponse struct {
	raw    string
	reason string
}

func (okResponse) parsed()        {}
func (malformedResponse) parsed() {}

// ParseEvaluation turns raw model output into a complete CandidateResult. It
// never fails: unusable output yields a result with Error set and defaults
// everywhere else. The decision is score >= threshold.
func ParseEvaluation(raw string, threshold int) models.CandidateResult {
	switch resp := decodeObject(raw).(type) {
	case okResponse:
		if msg, ok := resp.fields["error"].(string); ok && strings.TrimSpace(msg) != "" {
			return failedResult("model reported an error: " + strings.TrimSpace(msg))
		}
		return resultFromFields(resp.fields, threshold)
	case malformedResponse:
		log.Printf("⚠️  %s\n", resp)
		return failedResult("failed to parse model response: " + resp.reason)
	}
	return failedResult("failed to parse model response")
}

// ParseInterview reads a {"questions":[{"question","answer"}]} payload.
// Entries without a question are dropped.
func ParseInterview(raw string) models.InterviewQA {
	text := stripFences(raw)

	spans := []string{locateJSON(text, '{', '}'), locateJSON(text, '[', ']')}
	if first := strings.IndexAny(text, "{["); first >= 0 && text[first] == '[' {
		spans[0], spans[1] = spans[1], spans[0]
	}

	var decoded any
	if err := decodeLenient(spans[0], &decoded); err != nil {
		if errAlt := decodeLenient(spans[1], &decoded); errAlt != nil {
			return models.InterviewQA{Items: []models.QAPair{}, Error: "failed to parse interview questions: " + err.Error()}
		}
	}

	var entries []any
	switch v := decoded.(type) {
	case map[string]any:
		list, ok := lookup(v, "questions", "interview_questions", "items").([]any)
		if !ok {
			return models.InterviewQA{Items: []models.QAPair{}, Error: "failed to parse interview questions: no questions list"}
		}
		entries = list
	case []any:
		entries = v
	default:
		return models.InterviewQA{Items: []models.QAPair{}, Error: "failed to parse interview questions: unexpected payload"}
	}

	items := make([]models.QAPair, 0, len(entries))
	for _, entry := range entries {
		obj, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		question := stringField(obj, "", "question", "Question", "q")
		if question == "" {
			continue
		}
		items = append(items, models.QAPair{
			Question: question,
			Answer:   stringField(obj, "", "answer", "Answer", "suggested_answer", "a"),
		})
	}

	return models.InterviewQA{Items: items}
}

func decodeObject(raw string) parsedResponse {
	text := stripFences(raw)
	if strings.TrimSpace(text) == "" {
		return malformedResponse{raw: raw, reason: "empty response"}
	}

	var fields map[string]any
	if err := decodeLenient(locateJSON(text, '{', '}'), &fields); err != nil {
		return malformedResponse{raw: raw, reason: err.Error()}
	}
	if fields == nil {
		return malformedResponse{raw: raw, reason: "response is not a JSON object"}
	}

	return okResponse{fields: fields}
}

func decodeLenient(text string, out any) error {
	err := json.Unmarshal([]byte(text), out)
	if err == nil {
		return nil
	}

	if repaired := repairJSON(text); repaired != text && json.Unmarshal([]byte(repaired), out) == nil {
		return nil
	}

	return err
}

// repairJSON drops trailing commas and quotes bare object keys. String
// literals are copied untouched.
func repairJSON(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 16)

	var last byte
	inString, escaped := false, false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			b.WriteByte(c)
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
				last = c
			}
			continue
		}

		switch {
		case c == '"':
			inString = true
			b.WriteByte(c)
		case c == ',':
			if next := nextSignificant(text, i+1); next == '}' || next == ']' {
				continue
			}
			b.WriteByte(c)
			last = c
		case (last == '{' || last == ',') && isIdentStart(c):
			end := i + 1
			for end < len(text) && isIdentPart(text[end]) {
				end++
			}
			ident := text[i:end]
			if nextSignificant(text, end) == ':' {
				b.WriteString(`"` + ident + `"`)
			} else {
				b.WriteString(ident)
			}
			last = text[end-1]
			i = end - 1
		default:
			b.WriteByte(c)
			if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
				last = c
			}
		}
	}

	return b.String()
}

func nextSignificant(text string, from int) byte {
	for i := from; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		return text[i]
	}
	return 0
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func stripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.Contains(text, "```") {
		return text
	}
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```JSON", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// locateJSON returns the span from the first opening to the last closing byte, or
// the whole text when there is no such span.
func locateJSON(text string, opening, closing byte) string {
	start := strings.IndexByte(text, opening)
	end := strings.LastIndexByte(text, closing)
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

func resultFromFields(fields map[string]any, threshold int) models.CandidateResult {
	score := coerceScore(lookup(fields, scoreKeys...))

	return models.CandidateResult{
		CandidateName:  stringField(fields, UnknownCandidateName, nameKeys...),
		CandidateEmail: stringField(fields, UnknownCandidateEmail, emailKeys...),
		FitScore:       score,
		Decision:       models.FitDecision(score >= threshold),
		ModelFit:       lookup(fields, fitKeys...) == "Yes",
		MatchedSkills:  stringList(lookup(fields, matchedKeys...)),
		MissingSkills:  stringList(lookup(fields, missingKeys...)),
		Explanation:    stringField(fields, NoExplanation, explanationKeys...),
	}
}

func failedResult(reason string) models.CandidateResult {
	return models.CandidateResult{
		CandidateName:  UnknownCandidateName,
		CandidateEmail: UnknownCandidateEmail,
		FitScore:       0,
		Decision:       models.NotFit,
		MatchedSkills:  []string{},
		MissingSkills:  []string{},
		Explanation:    reason,
		Error:          reason,
	}
}

func lookup(fields map[string]any, keys ...string) any {
	for _, key := range keys {
		if v, ok := fields[key]; ok && v != nil {
			return v
		}
	}
	return nil
}

func stringField(fields map[string]any, fallback string, keys ...string) string {
	if s, ok := lookup(fields, keys...).(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	return fallback
}

func coerceScore(v any) int {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case string:
		s := strings.TrimSpace(t)
		s = strings.TrimSuffix(s, "%")
		if i := strings.Index(s, "/"); i > 0 {
			s = s[:i]
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	f = math.Round(f)
	if f < 0 {
		return 0
	}
	if f > 100 {
		return 100
	}
	return int(f)
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		switch t := item.(type) {
		case string:
			s = t
		case map[string]any:
			s = stringField(t, "", "skill", "name", "Skill")
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (m malformedResponse) String() string {
	return fmt.Sprintf("malformed response (%s): %.80q", m.reason, m.raw)
}
