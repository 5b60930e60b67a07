package exam_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edukita/schoolhub/internal/exam"
)

func TestOptionMapMarshalKeepsKeyOrder(t *testing.T) {
	var m exam.OptionMap
	m.Set("C", "third")
	m.Set("A", "first")
	m.Set("B", "second")

	b, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, `{"C":"third","A":"first","B":"second"}`, string(b))
}

func TestOptionMapRoundTrip(t *testing.T) {
	in := `{"B":"beta","A":"alpha","D":"delta"}`
	var m exam.OptionMap
	require.NoError(t, json.Unmarshal([]byte(in), &m))
	require.Equal(t, []string{"B", "A", "D"}, m.Keys())

	out, err := json.Marshal(m)
	require.NoError(t, err)
	require.Equal(t, in, string(out))
}

func TestOptionMapNull(t *testing.T) {
	var m exam.OptionMap
	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	require.Zero(t, m.Len())
}

func TestOptionMapReordered(t *testing.T) {
	var m exam.OptionMap
	m.Set("A", "alpha")
	m.Set("B", "beta")
	m.Set("C", "gamma")

	r := m.Reordered([]string{"C", "A", "B"})
	require.Equal(t, []string{"C", "A", "B"}, r.Keys())
	for _, k := range []string{"A", "B", "C"} {
		want, _ := m.Get(k)
		got, ok := r.Get(k)
		require.True(t, ok)
		require.Equal(t, want, got)
	}

	// unknown labels are dropped, not invented
	r = m.Reordered([]string{"B", "Z"})
	require.Equal(t, []string{"B"}, r.Keys())
}

func TestOptionMapSetOverwrites(t *testing.T) {
	var m exam.OptionMap
	m.Set("A", "one")
	m.Set("A", "two")
	require.Equal(t, 1, m.Len())
	v, _ := m.Get("A")
	require.Equal(t, "two", v)
}
