package questions_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/errors"
	"github.com/vytor/quizflash/internal/questions"
)

const sampleCSV = `question,code,option_1,option_2,option_3,option_4,answer
What does len return for a nil slice?,,0,panic,nil,-1,0
What is printed?,"fmt.Println(1 << 3)",3,8,,16,8
Which keyword starts a goroutine?,,go,,,,go
`

func TestParse_ValidFile(t *testing.T) {
	qs, err := questions.Parse(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, qs, 3)

	assert.Equal(t, "What does len return for a nil slice?", qs[0].Question)
	assert.Nil(t, qs[0].Code, "empty code column maps to nil")
	assert.Equal(t, []string{"0", "panic", "nil", "-1"}, qs[0].Options)
	assert.Equal(t, "0", qs[0].Answer)

	require.NotNil(t, qs[1].Code)
	assert.Equal(t, "fmt.Println(1 << 3)", *qs[1].Code)
	assert.Equal(t, []string{"3", "8", "16"}, qs[1].Options, "empty option columns are skipped, order kept")

	assert.Equal(t, []string{"go"}, qs[2].Options)
}

func TestParse_ColumnOrderIndependent(t *testing.T) {
	data := "answer,option_2,question,option_1\nB,B,Pick B,A\n"

	qs, err := questions.Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, qs, 1)

	assert.Equal(t, "Pick B", qs[0].Question)
	assert.Equal(t, []string{"A", "B"}, qs[0].Options, "options follow option_N numbering")
	assert.Nil(t, qs[0].Code, "missing code column maps to nil")
}

func TestParse_HeaderWithBOM(t *testing.T) {
	data := "\ufeffquestion,answer,option_1\nQ,A,A\n"

	qs, err := questions.Parse(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.Equal(t, "Q", qs[0].Question)
}

func TestParse_OptionsNeverNil(t *testing.T) {
	qs, err := questions.Parse(strings.NewReader("question,answer\nFree text?,yes\n"))
	require.NoError(t, err)
	require.Len(t, qs, 1)
	assert.NotNil(t, qs[0].Options)
	assert.Empty(t, qs[0].Options)
}

func TestParse_HeaderOnly(t *testing.T) {
	qs, err := questions.Parse(strings.NewReader("question,answer\n"))
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestParse_DataFormatErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		contains string
	}{
		{
			name:     "empty input",
			data:     "",
			contains: "missing header row",
		},
		{
			name:     "missing question column",
			data:     "prompt,answer\nQ,A\n",
			contains: `missing required column "question"`,
		},
		{
			name:     "missing answer column",
			data:     "question,option_1\nQ,A\n",
			contains: `missing required column "answer"`,
		},
		{
			name:     "short row",
			data:     "question,option_1,answer\nQ1,A,A\nQ2,B\n",
			contains: `line 3: row has no "answer" value`,
		},
		{
			name:     "unterminated quote",
			data:     "question,answer\n\"Q1,A\n",
			contains: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := questions.Parse(strings.NewReader(tt.data))
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrCodeDataFormat), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz_questions.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o600))

	qs, err := questions.Load(path)
	require.NoError(t, err)
	assert.Len(t, qs, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := questions.Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.False(t, errors.IsCode(err, errors.ErrCodeDataFormat))
}
