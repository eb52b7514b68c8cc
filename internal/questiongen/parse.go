package questiongen

import (
	"regexp"
	"strconv"
	"strings"
)

// Labels of the evaluation format.
const (
	LabelScore         = "SCORE"
	LabelCorrectAnswer = "CORRECT ANSWER"
	LabelNextQuestion  = "NEXT QUESTION"
	LabelQuestion      = "QUESTION"
)

var (
	// Matches "SCORE:", "**Correct answer**:", "next  question :" and so on
	// at the start of a line.
	evalLabelRe = regexp.MustCompile(`(?im)^[\s*]*(score|correct\s+answer|next\s+question)[*\s]*:`)
	// Labels that follow the score on the same line in one-line replies.
	inlineLabelRe = regexp.MustCompile(`(?i)\b(correct\s+answer|next\s+question)[*\s]*:`)
	questionRe    = regexp.MustCompile(`(?im)^[\s*]*question[*\s]*:`)
	blankLineRe   = regexp.MustCompile(`\n[ \t]*\n`)
	leadingIntRe  = regexp.MustCompile(`^\s*(-?\d+)`)
	spaceRe       = regexp.MustCompile(`\s+`)
)

// field is one labeled value found in a response.
type field struct {
	value   string
	present bool
}

// splitLabels returns the raw text following each label matched by re, up
// to the next match. The first occurrence of a label wins.
func splitLabels(text string, re *regexp.Regexp) map[string]field {
	out := make(map[string]field, 3)
	locs := re.FindAllStringSubmatchIndex(text, -1)

	for i, loc := range locs {
		name := canonicalLabel(text[loc[2]:loc[3]])
		if _, seen := out[name]; seen {
			continue
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		out[name] = field{value: text[loc[1]:end], present: true}
	}
	return out
}

// extractFields finds the evaluation labels in text and returns the
// cleaned value of each, keyed by the canonical label name.
func extractFields(text string) map[string]field {
	out := splitLabels(text, evalLabelRe)

	// "SCORE: 7 CORRECT ANSWER: Paris NEXT QUESTION: ..." on one line.
	if score, ok := out[LabelScore]; ok {
		if loc := inlineLabelRe.FindStringIndex(score.value); loc != nil {
			for name, f := range splitLabels(score.value[loc[0]:], inlineLabelRe) {
				out[name] = f
			}
			out[LabelScore] = field{value: score.value[:loc[0]], present: true}
		}
	}

	for name, f := range out {
		f.value = cleanValue(f.value)
		out[name] = f
	}
	return out
}

func canonicalLabel(raw string) string {
	return strings.ToUpper(spaceRe.ReplaceAllString(raw, " "))
}

// cleanValue trims markdown emphasis and whitespace and drops anything
// after the first blank line.
func cleanValue(s string) string {
	if loc := blankLineRe.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.Trim(s, " \t\r\n*")
}

// ParseEvaluation extracts score, correct answer and next question from a
// model response. It never fails: absent labels yield zero values.
func ParseEvaluation(text string) Evaluation {
	fields := extractFields(text)
	return Evaluation{
		Score:         parseScore(fields[LabelScore].value),
		CorrectAnswer: fields[LabelCorrectAnswer].value,
		NextQuestion:  fields[LabelNextQuestion].value,
	}
}

// IsWellFormed reports whether text carries both the SCORE and CORRECT
// ANSWER labels.
func IsWellFormed(text string) bool {
	fields := extractFields(text)
	return fields[LabelScore].present && fields[LabelCorrectAnswer].present
}

// parseScore reads the integer at the start of s and clamps it to
// [MinScore, MaxScore]. Anything else, such as "seven out of 10", is 0.
func parseScore(s string) int {
	m := leadingIntRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Too many digits for an int.
		if strings.HasPrefix(m[1], "-") {
			return MinScore
		}
		return MaxScore
	}
	return min(max(n, MinScore), MaxScore)
}

// ParseQuestion returns the text after the first line that starts with a
// QUESTION label, or the whole trimmed response when there is none or its
// value is empty.
func ParseQuestion(text string) string {
	if loc := questionRe.FindStringIndex(text); loc != nil {
		if q := cleanValue(text[loc[1]:]); q != "" {
			return q
		}
	}
	return strings.TrimSpace(text)
}
