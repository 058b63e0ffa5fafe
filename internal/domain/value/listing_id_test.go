package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"auction_house/internal/domain/value"
)

func TestNewListingID(t *testing.T) {
	rq := require.New(t)

	seen := make(map[value.ListingID]struct{}, 1000)

	for range 1000 {
		id, err := value.NewListingID()
		rq.NoError(err)
		rq.Len(id.String(), 32)

		_, dup := seen[id]
		rq.False(dup)

		seen[id] = struct{}{}
	}
}

func TestParseListingID(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name    string
		input   string
		want    value.ListingID
		wantErr bool
	}{
		{
			name:  "Valid",
			input: "0123456789abcdef0123456789abcdef",
			want:  "0123456789abcdef0123456789abcdef",
		},
		{
			name:  "Upper case is normalized",
			input: "0123456789ABCDEF0123456789ABCDEF",
			want:  "0123456789abcdef0123456789abcdef",
		},
		{
			name:    "Too short",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "Not hex",
			input:   "zz23456789abcdef0123456789abcdef",
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			id, err := value.ParseListingID(tc.input)
			if tc.wantErr {
				rq.Error(err)
				return
			}

			rq.NoError(err)
			rq.Equal(tc.want, id)
		})
	}
}
