package school_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/school"
)

func TestParseStudentCSV(t *testing.T) {
	csv := strings.Join([]string{
		"nis,name,major,grade,class,username,password",
		"1001,Ani,IPA,X,X-1,ani,rahasia",
		"1002,Budi,IPS,XI,XI-2,budi,rahasia2",
		",Skip Me,IPA,X,X-1,,nopass",
	}, "\n")

	rows, err := school.ParseStudentCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "1001", rows[0].NIS)
	require.Equal(t, "ani", rows[0].Username)
	require.Equal(t, "XI-2", rows[1].Class)
}

func TestParseTeacherCSV(t *testing.T) {
	csv := strings.Join([]string{
		"name,subject,username,password,phone",
		"Pak Dodi,Matematika,dodi,rahasia,0812",
	}, "\n")

	rows, err := school.ParseTeacherCSV(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Matematika", rows[0].Subject)
	require.Equal(t, "0812", rows[0].Phone)
}

func TestParseUserCSVRequiresCredentialColumns(t *testing.T) {
	_, err := school.ParseStudentCSV(strings.NewReader("name,username\nAni,ani"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "password")
}
