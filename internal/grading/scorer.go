package grading

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// LowConfidenceThreshold is the similarity score below which a subjective
// answer gets a warning appended to its comment.
const LowConfidenceThreshold = 50

// subjectiveKeywords mark a question as free-form: short-answer, discussion,
// analysis, description and essay style wording.
var subjectiveKeywords = []string{"简答", "讨论", "分析", "描述", "论述", "说明"}

// Scorer grades a single answer against its reference. Objective questions are
// scored by exact match, subjective ones by a Ratcliff/Obershelp sequence
// similarity. Both paths are deterministic and purely local.
type Scorer struct {
	keywords []string
}

// NewScorer returns a scorer with the default subjective keyword set.
func NewScorer() *Scorer {
	return &Scorer{keywords: subjectiveKeywords}
}

// IsSubjective reports whether the question's own wording marks it as
// free-form rather than exact-match.
func (s *Scorer) IsSubjective(question string) bool {
	for _, keyword := range s.keywords {
		if strings.Contains(question, keyword) {
			return true
		}
	}
	return false
}

// Score grades one student answer against the reference answer for the given
// question text and returns a score in [0,100] plus a student-facing comment.
func (s *Scorer) Score(question, reference, answer string) (float64, string) {
	reference = strings.TrimSpace(reference)
	answer = strings.TrimSpace(answer)

	if s.IsSubjective(question) {
		return s.scoreSubjective(reference, answer)
	}

	return s.scoreObjective(reference, answer)
}

func (s *Scorer) scoreObjective(reference, answer string) (float64, string) {
	if answer == reference {
		return 100, "回答正确。"
	}

	return 0, fmt.Sprintf("回答错误。你的答案：%s；参考答案：%s", answer, reference)
}

func (s *Scorer) scoreSubjective(reference, answer string) (float64, string) {
	score := Similarity(reference, answer)

	comment := fmt.Sprintf("与参考答案的相似度为 %.0f%%。", score)
	if score < LowConfidenceThreshold {
		comment += "相似度较低，请对照参考答案复习本题。"
	}

	return score, comment
}

// Similarity returns the Ratcliff/Obershelp similarity of two strings scaled
// to [0,100]. Identical strings score 100; the measure is symmetric.
func Similarity(a, b string) float64 {
	if a == b {
		return 100
	}

	matcher := difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, ""))
	return matcher.Ratio() * 100
}
