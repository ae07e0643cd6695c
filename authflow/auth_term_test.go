package authflow

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var strcls string

func init() {
	color.NoColor = true

	var buf bytes.Buffer
	clrscr(&buf)
	strcls = buf.String()
}

var en = catalog[0]

func TestTermPresenter_Present(t *testing.T) {
	type fields struct {
		names []string
	}
	tests := []struct {
		name     string
		fields   fields
		screen   func(taps *[]int) *Screen
		input    []string
		wantOut  string
		want     Decision
		wantTaps []int
		wantErr  bool
	}{
		{
			"enter confirms",
			fields{},
			func(*[]int) *Screen { return NewScreen(nil, nil) },
			[]string{""},
			strcls + en.welcome + en.prompt,
			Confirmed,
			nil,
			false,
		},
		{
			"q dismisses",
			fields{},
			func(*[]int) *Screen { return NewScreen(nil, nil) },
			[]string{"q"},
			strcls + en.welcome + en.prompt + en.cancel,
			Dismissed,
			nil,
			false,
		},
		{
			"eof dismisses",
			fields{},
			func(*[]int) *Screen { return NewScreen(nil, nil) },
			[]string{},
			strcls + en.welcome + en.prompt + "\n" + en.cancel,
			Dismissed,
			nil,
			false,
		},
		{
			"operator and icons are shown, taps are forwarded zero-based",
			fields{names: []string{"WeChat", "Apple"}},
			func(taps *[]int) *Screen {
				s := NewScreen([]Asset{1, 2}, func(i int) { *taps = append(*taps, i) })
				s.Operator = "AIS"
				return s
			},
			[]string{"2", "1", ""},
			strcls + en.welcome + "Carrier: AIS\n" + en.options +
				"  1) WeChat\n  2) Apple\n" +
				en.prompt + "opening login option 2\n" +
				en.prompt + "opening login option 1\n" +
				en.prompt,
			Confirmed,
			[]int{1, 0},
			false,
		},
		{
			"out of range and garbage input are rejected",
			fields{},
			func(taps *[]int) *Screen {
				return NewScreen([]Asset{"line"}, func(i int) { *taps = append(*taps, i) })
			},
			[]string{"3", "abc", "q"},
			strcls + en.welcome + en.options + "  1) line\n" +
				en.prompt + ErrIndexOutOfRange.Error() + "\n" +
				en.prompt + en.invalid + "\n" +
				en.prompt + en.cancel,
			Dismissed,
			nil,
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var taps []int
			tp := TermPresenter{Names: tt.fields.names}

			cap := StartCapture(t, tt.input...)
			got, err := tp.Present(context.Background(), tt.screen(&taps))
			output := cap.StopCapture()

			if (err != nil) != tt.wantErr {
				t.Errorf("TermPresenter.Present() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOut, output)
			assert.Equal(t, tt.wantTaps, taps)
		})
	}
}

func TestTermPresenter_PresentCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cap := StartCapture(t, "")
	got, err := TermPresenter{}.Present(ctx, NewScreen(nil, nil))
	cap.StopCapture()

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, Dismissed, got)
}

func Test_textsFor(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty", "", catalog[0].welcome},
		{"english", "en-GB", catalog[0].welcome},
		{"thai", "th", catalog[1].welcome},
		{"chinese", "zh-CN", catalog[2].welcome},
		{"unsupported", "fr", catalog[0].welcome},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, textsFor(tt.code).welcome)
		})
	}
}

type captor struct {
	r         *os.File
	w         *os.File
	oldOut    *os.File
	oldReadln func(r io.Reader) (string, error)
}

// StartCapture starts capturing output. If input is not empty, it will also
// feed it line by line to the presenter.  Without input, the presenter sees
// EOF on the first read.
func StartCapture(t *testing.T, input ...string) *captor {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	oldOut := hOutput
	oldIn := readln

	hOutput = w
	readln = mkTestReadln(input...)

	return &captor{
		r:         r,
		w:         w,
		oldOut:    oldOut,
		oldReadln: oldIn,
	}
}

func mkTestReadln(input ...string) func(io.Reader) (string, error) {
	var i = 0
	return func(r io.Reader) (string, error) {
		if i >= len(input) {
			return "", io.EOF
		}
		ret := input[i]
		i++
		return ret, nil
	}
}

// StopCapture stops capturing and returns the captured output
func (c *captor) StopCapture() string {
	c.w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, c.r)
	hOutput = c.oldOut
	readln = c.oldReadln

	return buf.String()
}

func Test_readln(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{
			"empty input",
			"\n",
			"",
			false,
		},
		{
			"valid input",
			"123\n",
			"123",
			false,
		},
		{
			"valid input with spaces",
			"  123  \n",
			"123",
			false,
		},
		{
			"multiple lines (reads only first line)",
			"123\n456\n",
			"123",
			false,
		},
		{
			"no newline",
			"q",
			"q",
			false,
		},
		{
			"eof",
			"",
			"",
			true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readln(strings.NewReader(tt.input))
			if (err != nil) != tt.wantErr {
				t.Errorf("readln() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("readln() = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_readlnSharedReader(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("1\n2\n\n"))
	var got []string
	for {
		line, err := readln(in)
		if err != nil {
			assert.ErrorIs(t, err, io.EOF)
			break
		}
		got = append(got, line)
	}
	assert.Equal(t, []string{"1", "2", ""}, got)
}

func TestTermPresenter_PresentPipedInput(t *testing.T) {
	oldIn, oldOut := hInput, hOutput
	defer func() { hInput, hOutput = oldIn, oldOut }()
	out, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer out.Close()
	hOutput = out
	hInput = strings.NewReader("1\n2\n\n")

	var taps []int
	s := NewScreen([]Asset{"a", "b"}, func(i int) { taps = append(taps, i) })
	s.Language = "en"
	d, err := TermPresenter{}.Present(context.Background(), s)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, d)
	assert.Equal(t, []int{0, 1}, taps)
}
