package csvexport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_NaiveDoesNotEscape(t *testing.T) {
	out, err := Encode(Table{
		Header: []string{"full_name", "college_name"},
		Rows: [][]string{
			{"Asha", "City College"},
			{`Ravi "RK" Kumar`, "Tech, Pune"},
		},
	}, QuotingNaive)
	require.NoError(t, err)

	assert.Equal(t,
		"full_name,college_name\n"+
			`"Asha","City College"`+"\n"+
			`"Ravi "RK" Kumar","Tech, Pune"`,
		string(out))
}

func TestEncode_RFC4180Escapes(t *testing.T) {
	out, err := Encode(Table{
		Header: []string{"full_name", "college_name"},
		Rows:   [][]string{{`Ravi "RK" Kumar`, "Tech, Pune"}},
	}, QuotingRFC4180)
	require.NoError(t, err)

	assert.Equal(t, "full_name,college_name\n\"Ravi \"\"RK\"\" Kumar\",\"Tech, Pune\"\n", string(out))
}

func TestEncode_EmptyTable(t *testing.T) {
	out, err := Encode(Table{Header: []string{"id"}}, QuotingNaive)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestEncode_RaggedRow(t *testing.T) {
	_, err := Encode(Table{Header: []string{"a", "b"}, Rows: [][]string{{"1"}}}, QuotingNaive)
	assert.Error(t, err)
}

func TestParseQuoting(t *testing.T) {
	assert.Equal(t, QuotingRFC4180, ParseQuoting("RFC4180"))
	assert.Equal(t, QuotingNaive, ParseQuoting(""))
	assert.Equal(t, QuotingNaive, ParseQuoting("excel"))
}
