package grading

import "math"

// WrongAnswerThreshold is the per-question score below which an answer counts
// as wrong for mistake records and class statistics.
const WrongAnswerThreshold = 60

// QuestionGrade is the grade for one numbered question.
type QuestionGrade struct {
	QuestionNo int     `json:"question_no"`
	Score      float64 `json:"score"`
	Comment    string  `json:"comment"`
}

// Result is the full grading outcome for one student submission. It is
// persisted both as a JSON artifact and as a homework grade row.
type Result struct {
	OverallScore float64         `json:"overall_score"`
	AIComment    string          `json:"ai_comment"`
	PerQuestion  []QuestionGrade `json:"per_question"`
}

// WrongAnswer is one below-threshold question enriched with the texts a
// student needs to review it.
type WrongAnswer struct {
	QuestionNo    int     `json:"question_no"`
	Question      string  `json:"question"`
	Reference     string  `json:"reference_answer"`
	StudentAnswer string  `json:"student_answer"`
	Score         float64 `json:"score"`
}

// OverallScore computes the arithmetic mean of the per-question scores rounded
// to one decimal place, or 0 when there are no questions.
func OverallScore(grades []QuestionGrade) float64 {
	if len(grades) == 0 {
		return 0
	}

	var sum float64
	for _, grade := range grades {
		sum += grade.Score
	}

	return math.Round(sum/float64(len(grades))*10) / 10
}

// WrongAnswers filters the below-threshold grades out of a result, pairing
// each with its question, reference and student answer segments. Indexes past
// the end of a segment list fall back to the empty string.
func WrongAnswers(grades []QuestionGrade, questions, references, answers []string) []WrongAnswer {
	var wrong []WrongAnswer
	for _, grade := range grades {
		if grade.Score >= WrongAnswerThreshold {
			continue
		}

		idx := grade.QuestionNo - 1
		wrong = append(wrong, WrongAnswer{
			QuestionNo:    grade.QuestionNo,
			Question:      segmentAt(questions, idx),
			Reference:     segmentAt(references, idx),
			StudentAnswer: segmentAt(answers, idx),
			Score:         grade.Score,
		})
	}

	return wrong
}

func segmentAt(segments []string, idx int) string {
	if idx < 0 || idx >= len(segments) {
		return ""
	}
	return segments[idx]
}
