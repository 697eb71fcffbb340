package grading

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScorerClassification(t *testing.T) {
	scorer := NewScorer()

	require.True(t, scorer.IsSubjective("简答：什么是操作系统？"))
	require.True(t, scorer.IsSubjective("请分析快速排序的时间复杂度"))
	require.True(t, scorer.IsSubjective("论述数据库事务的 ACID 特性"))
	require.False(t, scorer.IsSubjective("What is 2+2?"))
	require.False(t, scorer.IsSubjective("Explain recursion."))
	require.False(t, scorer.IsSubjective("计算 3 的 4 次方"))
}

func TestObjectiveScoringIsExactMatch(t *testing.T) {
	scorer := NewScorer()

	score, comment := scorer.Score("What is 2+2?", "4", "4")
	require.Equal(t, 100.0, score)
	require.Equal(t, "回答正确。", comment)

	score, comment = scorer.Score("What is 2+2?", "4", "5")
	require.Equal(t, 0.0, score)
	require.Contains(t, comment, "5")
	require.Contains(t, comment, "4")

	// Trimming only; no partial credit.
	score, _ = scorer.Score("What is 2+2?", "4", "  4  ")
	require.Equal(t, 100.0, score)
	score, _ = scorer.Score("What is 2+2?", "4", "four")
	require.Equal(t, 0.0, score)
}

func TestObjectiveScoringEmptyAnswer(t *testing.T) {
	scorer := NewScorer()

	score, _ := scorer.Score("What is 2+2?", "4", "")
	require.Equal(t, 0.0, score)
}

func TestSubjectiveIdenticalAnswerScoresFull(t *testing.T) {
	scorer := NewScorer()

	score, comment := scorer.Score("简答：什么是递归？", "递归是函数调用自身的一种技术", "递归是函数调用自身的一种技术")
	require.Equal(t, 100.0, score)
	require.Contains(t, comment, "100%")
}

func TestSubjectiveLowSimilarityWarns(t *testing.T) {
	scorer := NewScorer()

	score, comment := scorer.Score("简答：什么是递归？", "递归是函数调用自身的一种技术", "不知道")
	require.Less(t, score, float64(LowConfidenceThreshold))
	require.Contains(t, comment, "相似度较低")
}

func TestSimilarityIsSymmetric(t *testing.T) {
	a := "栈是后进先出的数据结构"
	b := "队列是先进先出的数据结构"
	require.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-9)
}

func TestOverallScoreIsRoundedMean(t *testing.T) {
	grades := []QuestionGrade{{Score: 100}, {Score: 0}, {Score: 100}}
	require.Equal(t, 66.7, OverallScore(grades))

	require.Equal(t, 0.0, OverallScore(nil))
	require.Equal(t, 50.0, OverallScore([]QuestionGrade{{Score: 100}, {Score: 0}}))
}

func TestWrongAnswersFiltersBelowThreshold(t *testing.T) {
	grades := []QuestionGrade{
		{QuestionNo: 1, Score: 100},
		{QuestionNo: 2, Score: 0},
		{QuestionNo: 3, Score: 59},
		{QuestionNo: 4, Score: 60},
	}
	questions := []string{"q1", "q2", "q3", "q4"}
	references := []string{"r1", "r2", "r3", "r4"}
	answers := []string{"a1", "a2", "a3"}

	wrong := WrongAnswers(grades, questions, references, answers)
	require.Len(t, wrong, 2)
	require.Equal(t, 2, wrong[0].QuestionNo)
	require.Equal(t, "q2", wrong[0].Question)
	require.Equal(t, "r2", wrong[0].Reference)
	require.Equal(t, "a2", wrong[0].StudentAnswer)
	require.Equal(t, 3, wrong[1].QuestionNo)
	require.Equal(t, "a3", wrong[1].StudentAnswer)
}

func TestWrongAnswersMissingStudentSegment(t *testing.T) {
	grades := []QuestionGrade{{QuestionNo: 2, Score: 0}}

	wrong := WrongAnswers(grades, []string{"q1", "q2"}, []string{"r1", "r2"}, []string{"only one"})
	require.Len(t, wrong, 1)
	require.Equal(t, "", wrong[0].StudentAnswer)
}
