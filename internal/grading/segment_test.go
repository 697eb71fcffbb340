package grading

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitReturnsOneSegmentPerMarker(t *testing.T) {
	text := "(1) 4\n(2) Recursion is a function calling itself.\n(3) 栈是后进先出的结构"

	segments := Split(text)
	require.Len(t, segments, 3)
	require.Equal(t, "4", segments[0])
	require.Equal(t, "Recursion is a function calling itself.", segments[1])
	require.Equal(t, "栈是后进先出的结构", segments[2])
	for _, segment := range segments {
		require.NotRegexp(t, `\(\d+\)`, segment)
	}
}

func TestSplitPreservesInternalWhitespace(t *testing.T) {
	text := "(1) first line\nsecond line\n\n(2) other"

	segments := Split(text)
	require.Len(t, segments, 2)
	require.Equal(t, "first line\nsecond line", segments[0])
	require.Equal(t, "other", segments[1])
}

func TestSplitWithoutMarkersReturnsNothing(t *testing.T) {
	require.Empty(t, Split("just prose with no numbering at all"))
	require.Empty(t, Split(""))
}

func TestSplitIgnoresLeadingPreamble(t *testing.T) {
	segments := Split("请回答下列问题：\n(1) 第一题答案")
	require.Len(t, segments, 1)
	require.Equal(t, "第一题答案", segments[0])
}

func TestSplitSegmentCountMatchesMarkerCount(t *testing.T) {
	for n := 1; n <= 12; n++ {
		var builder strings.Builder
		for i := 1; i <= n; i++ {
			fmt.Fprintf(&builder, "(%d) answer number %d\n", i, i)
		}

		segments := Split(builder.String())
		require.Len(t, segments, n)
		for _, segment := range segments {
			require.NotRegexp(t, `\(\d+\)`, segment)
		}
	}
}
