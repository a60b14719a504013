package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_ValidMapping_ExposesKeysInDocumentOrder(t *testing.T) {
	m, err := Parse([]byte("title: My Page\ntags:\n  - one\ndraft: true\n"))
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	require.Equal(t, []string{"title", "tags", "draft"}, m.Keys())

	value, ok := m.Value("title")
	require.True(t, ok)
	require.Equal(t, "My Page", value)
}

func TestParse_EmptyInput_ReturnsEmptyMapping(t *testing.T) {
	m, err := Parse(nil)
	require.NoError(t, err)
	require.Equal(t, 0, m.Len())
}

func TestParse_MalformedYAML_ReturnsErrParse(t *testing.T) {
	_, err := Parse([]byte(": : :\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrParse))
}

func TestParse_SequenceRoot_ReturnsErrNotMapping(t *testing.T) {
	_, err := Parse([]byte("- one\n- two\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotMapping))
	require.Contains(t, err.Error(), "sequence")
}

func TestParse_ScalarRoot_ReturnsErrNotMapping(t *testing.T) {
	_, err := Parse([]byte("just a string\n"))
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrNotMapping))
	require.Contains(t, err.Error(), "scalar")
}

func TestSet_NewKey_AppendsAfterExistingKeys(t *testing.T) {
	m, err := Parse([]byte("title: My Page\n"))
	require.NoError(t, err)

	m.Set("layout", "src/layout/layout.astro")

	require.Equal(t, []string{"title", "layout"}, m.Keys())
	value, ok := m.Value("layout")
	require.True(t, ok)
	require.Equal(t, "src/layout/layout.astro", value)
}

func TestSet_ExistingKey_OverwritesInPlace(t *testing.T) {
	m, err := Parse([]byte("a: 1\nlayout: old.astro\nz: 2\n"))
	require.NoError(t, err)

	m.Set("layout", "new.astro")

	require.Equal(t, []string{"a", "layout", "z"}, m.Keys())
	value, ok := m.Value("layout")
	require.True(t, ok)
	require.Equal(t, "new.astro", value)
}

func TestEncode_RoundTrip_PreservesKeyOrder(t *testing.T) {
	input := []byte("zebra: 1\nalpha: 2\nmiddle: 3\n")

	m, err := Parse(input)
	require.NoError(t, err)

	out, err := m.Encode("")
	require.NoError(t, err)
	require.Equal(t, input, out)
}

func TestEncode_CRLFNewline_AppliedThroughout(t *testing.T) {
	m := New()
	m.Set("layout", "x.astro")
	m.Set("title", "Hi")

	out, err := m.Encode("\r\n")
	require.NoError(t, err)
	require.Equal(t, []byte("layout: x.astro\r\ntitle: Hi\r\n"), out)
}

func TestEncode_EmptyMapping_ReturnsEmptySlice(t *testing.T) {
	out, err := New().Encode("")
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestHas_AbsentKey_ReportsFalse(t *testing.T) {
	m, err := Parse([]byte("title: x\n"))
	require.NoError(t, err)
	require.True(t, m.Has("title"))
	require.False(t, m.Has("layout"))
}
