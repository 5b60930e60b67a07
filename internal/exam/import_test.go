package exam_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/exam"
)

func TestParseQuestionCSV(t *testing.T) {
	csv := strings.Join([]string{
		"question,type,A,B,C,answer,imgB",
		"What is 2+2?,pg,3,4,5,B,",
		"Describe the water cycle,essay,,,,,",
		"True or false: the sun is a star,pg,true,false,,A,b.png",
	}, "\n")

	rows, err := exam.ParseQuestionCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, "What is 2+2?", rows[0].Prompt)
	require.Equal(t, exam.TypeChoice, rows[0].Type)
	require.Equal(t, []string{"A", "B", "C"}, rows[0].Options.Keys())
	require.Equal(t, "B", rows[0].Answer)

	require.Equal(t, exam.TypeEssay, rows[1].Type)
	require.Zero(t, rows[1].Options.Len())

	// sparse option sets keep only the filled labels, image cells get the img prefix
	require.Equal(t, []string{"A", "B", "imgB"}, rows[2].Options.Keys())
	v, _ := rows[2].Options.Get("imgB")
	require.Equal(t, "b.png", v)
}

func TestParseQuestionCSVSkipsAndDefaults(t *testing.T) {
	csv := strings.Join([]string{
		"question,type,A,B",
		",pg,1,2",
		"valid prompt,bogus,1,2",
	}, "\n")

	rows, err := exam.ParseQuestionCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, exam.TypeChoice, rows[0].Type) // unknown type falls back
}

func TestParseQuestionCSVMissingColumns(t *testing.T) {
	_, err := exam.ParseQuestionCSV(strings.NewReader("type,A\npg,1"))
	require.Error(t, err)

	_, err = exam.ParseQuestionCSV(strings.NewReader("question,A\nhello,1"))
	require.Error(t, err)
}
