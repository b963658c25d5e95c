package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blackwell-systems/codegauge/internal/lang"
)

func TestClassifyLines_EmptyContent(t *testing.T) {
	m := ClassifyLines("", lang.JavaScript)

	assert.Equal(t, 1, m.TotalLines)
	assert.Equal(t, 0, m.CodeLines)
	assert.Equal(t, 1, m.BlankLines)
	assert.Equal(t, 0, m.CommentLines)
	assert.Zero(t, m.CommentsRatio)
	assert.Zero(t, m.AvgLineLength)
}

func TestClassifyLines_CommentAndCode(t *testing.T) {
	m := ClassifyLines("// a\nconst x = 1;\n", lang.JavaScript)

	assert.Equal(t, 3, m.TotalLines)
	assert.Equal(t, 1, m.CommentLines)
	assert.Equal(t, 1, m.CodeLines)
	assert.Equal(t, 1, m.BlankLines)
	assert.Equal(t, 33.33, m.CommentsRatio)
	assert.Equal(t, 33.33, m.CodeRatio)
	assert.Equal(t, 33.33, m.BlankRatio)
	assert.Equal(t, 18.0, m.AvgLineLength)
}

func TestClassifyLines_BlockComments(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		wantTotal   int
		wantComment int
		wantCode    int
		wantBlank   int
	}{
		{
			name:        "multi-line span counts once",
			text:        "/* a\nb */\ncode();\n",
			wantTotal:   4,
			wantComment: 1,
			wantCode:    1,
			wantBlank:   1,
		},
		{
			name:        "line comment inside span counts again",
			text:        "/*\n// x\n*/\nrun();",
			wantTotal:   4,
			wantComment: 2,
			wantCode:    1,
		},
		{
			name:        "code after span on same line",
			text:        "/* c */ x = 1;",
			wantTotal:   1,
			wantComment: 1,
			wantCode:    1,
		},
		{
			name:        "two spans on one line",
			text:        "/* a */ /* b */",
			wantTotal:   1,
			wantComment: 2,
		},
		{
			name:        "nested closes at first terminator",
			text:        "/* outer /* inner */ tail */",
			wantTotal:   1,
			wantComment: 1,
			wantCode:    1,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := ClassifyLines(tc.text, lang.JavaScript)
			assert.Equal(t, tc.wantTotal, m.TotalLines)
			assert.Equal(t, tc.wantComment, m.CommentLines)
			assert.Equal(t, tc.wantCode, m.CodeLines)
			assert.Equal(t, tc.wantBlank, m.BlankLines)
		})
	}
}

func TestClassifyLines_HashCommentsPythonOnly(t *testing.T) {
	text := "# note\nx = 1\n"

	py := ClassifyLines(text, lang.Python)
	assert.Equal(t, 1, py.CommentLines)
	assert.Equal(t, 1, py.CodeLines)

	js := ClassifyLines(text, lang.JavaScript)
	assert.Equal(t, 0, js.CommentLines)
	assert.Equal(t, 2, js.CodeLines)
}

func TestClassifyLines_CountsNeverExceedTotal(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"   \t  ",
		"/* only */",
		"a\n// b\n/* c\n d */\n\n e",
		strings.Repeat("x := 1\n", 50),
		"/* unterminated\nstill code",
	}

	for _, in := range inputs {
		for _, l := range []lang.Language{lang.JavaScript, lang.Python, lang.Unknown} {
			m := ClassifyLines(in, l)
			assert.GreaterOrEqual(t, m.TotalLines, 1)
			assert.LessOrEqual(t, m.CodeLines+m.BlankLines, m.TotalLines, "input %q", in)
			assert.GreaterOrEqual(t, m.CommentsRatio, 0.0)
			assert.LessOrEqual(t, m.CodeRatio+m.BlankRatio, 100.01)
		}
	}
}
