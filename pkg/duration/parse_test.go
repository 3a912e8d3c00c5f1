package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{input: "30s", want: 30 * time.Second},
		{input: " 10s ", want: 10 * time.Second},
		{input: "1h30m", want: 90 * time.Minute},
		{input: "250ms", want: 250 * time.Millisecond},
		{input: "0", want: 0},
		{input: "2d", want: 2 * Day},
		{input: "1w", want: Week},
		{input: "1w2d", want: Week + 2*Day},
		{input: "1d12h", want: Day + 12*time.Hour},
		{input: "2w30m", want: 2*Week + 30*time.Minute},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "10", wantErr: true},
		{input: "1d2x", wantErr: true},
		{input: "-5s", wantErr: true},
		{input: "d", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
