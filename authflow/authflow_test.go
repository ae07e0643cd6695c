package authflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreen_Tap(t *testing.T) {
	icons := []Asset{"a", "b", "c", "d", "e"}
	tests := []struct {
		name    string
		idx     int
		want    []int
		wantErr error
	}{
		{"third icon", 2, []int{2}, nil},
		{"first icon", 0, []int{0}, nil},
		{"last icon", 4, []int{4}, nil},
		{"negative", -1, nil, ErrIndexOutOfRange},
		{"past the end", 5, nil, ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []int
			s := NewScreen(icons, func(i int) { got = append(got, i) })
			err := s.Tap(tt.idx)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScreen_TapAfterClose(t *testing.T) {
	var calls int
	s := NewScreen([]Asset{"a"}, func(int) { calls++ })
	require.NoError(t, s.Tap(0))
	require.NoError(t, s.Tap(0))
	assert.False(t, s.Closed())

	s.Close()
	assert.True(t, s.Closed())
	assert.ErrorIs(t, s.Tap(0), ErrScreenClosed)
	assert.Equal(t, 2, calls)
}

func TestScreen_TapNilCallback(t *testing.T) {
	s := NewScreen([]Asset{"a"}, nil)
	assert.NoError(t, s.Tap(0))
}

func TestPresenterFunc(t *testing.T) {
	var seen *Screen
	p := PresenterFunc(func(ctx context.Context, s *Screen) (Decision, error) {
		seen = s
		return Confirmed, nil
	})
	s := NewScreen(nil, nil)
	d, err := p.Present(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, d)
	assert.Same(t, s, seen)
	assert.Equal(t, "Confirmed", d.String())
}
