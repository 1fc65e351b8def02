package reconcile

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talx-hub/points-ledger/internal/model/batch"
	"github.com/talx-hub/points-ledger/internal/serviceerrs"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []batch.Row
	}{
		{
			name:  "empty input",
			input: "",
			want:  []batch.Row{},
		},
		{
			name:  "header only",
			input: "email,points\n",
			want:  []batch.Row{},
		},
		{
			name:  "canonical header",
			input: "email,uid,points,reason\na@x.com,,50,weekly bonus\n,u9,-3,fix\n",
			want: []batch.Row{
				{Line: 2, Email: "a@x.com", Delta: 50, Reason: "weekly bonus"},
				{Line: 3, UserID: "u9", Delta: -3, Reason: "fix"},
			},
		},
		{
			name:  "case-insensitive aliases",
			input: "EMAIL,Pts,Note\nb@x.com,7,promo\n",
			want: []batch.Row{
				{Line: 2, Email: "b@x.com", Delta: 7, Reason: "promo"},
			},
		},
		{
			name:  "short delta alias and unknown columns",
			input: "UID,p,region,Reason\nu1,12,north,ok\n",
			want: []batch.Row{
				{Line: 2, UserID: "u1", Delta: 12, Reason: "ok"},
			},
		},
		{
			name:  "blank lines skipped",
			input: "\n\nuid,points\n\nu1,1\n   \n\r\nu2,2\n",
			want: []batch.Row{
				{Line: 5, UserID: "u1", Delta: 1},
				{Line: 8, UserID: "u2", Delta: 2},
			},
		},
		{
			name:  "rows without identity dropped",
			input: "email,uid,points\n,,50\na@x.com,,5\n",
			want: []batch.Row{
				{Line: 3, Email: "a@x.com", Delta: 5},
			},
		},
		{
			name:  "decimal notation of whole points",
			input: "uid,points\nu1,50.00\nu2,1e2\n",
			want: []batch.Row{
				{Line: 2, UserID: "u1", Delta: 50},
				{Line: 3, UserID: "u2", Delta: 100},
			},
		},
		{
			name:  "crlf and padded cells",
			input: "uid , points , note\r\n u1 ,  8 , spaced \r\n",
			want: []batch.Row{
				{Line: 2, UserID: "u1", Delta: 8, Reason: "spaced"},
			},
		},
		{
			name:  "byte order mark",
			input: "\ufeffuid,points\nu1,3\n",
			want: []batch.Row{
				{Line: 2, UserID: "u1", Delta: 3},
			},
		},
		{
			name:  "quoted reason with comma",
			input: "uid,points,reason\nu1,4,\"late, but fine\"\n",
			want: []batch.Row{
				{Line: 2, UserID: "u1", Delta: 4, Reason: "late, but fine"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_invalidDelta(t *testing.T) {
	input := "uid,points\nu1,abc\nu2,\nu3,12.5\nu4,99999999999999999999\nu5,10\n"
	rows, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	for _, r := range rows[:4] {
		assert.ErrorIs(t, r.Err, serviceerrs.ErrInvalidDelta, r.UserID)
	}
	assert.NoError(t, rows[4].Err)
	assert.Equal(t, int64(10), rows[4].Delta)
}

func TestParse_readError(t *testing.T) {
	_, err := Parse(errReader{})
	require.ErrorIs(t, err, serviceerrs.ErrMalformedBatch)
}
