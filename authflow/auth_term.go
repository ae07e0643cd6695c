package authflow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/text/language"
)

// TermPresenter renders the login screen in the terminal.
type TermPresenter struct {
	// Names are optional display names for the alternate login icons, in the
	// same order.  If not set, the icon itself is printed if it is a string or
	// a fmt.Stringer.
	Names []string
}

// texts is the set of strings shown on the terminal screen.
type texts struct {
	welcome  string
	operator string
	options  string
	prompt   string
	invalid  string
	option   string
	cancel   string
}

var (
	catalogTags = []language.Tag{language.English, language.Thai, language.SimplifiedChinese}
	catalog     = []texts{
		{
			welcome:  "One-click login\n",
			operator: "Carrier: %s\n",
			options:  "Other ways to log in:\n",
			prompt:   "Press Enter to log in, a number for another option, or q to cancel: ",
			invalid:  "unrecognised input",
			option:   "opening login option %d\n",
			cancel:   "login cancelled\n",
		},
		{
			welcome:  "เข้าสู่ระบบด้วยคลิกเดียว\n",
			operator: "ผู้ให้บริการ: %s\n",
			options:  "วิธีเข้าสู่ระบบอื่น:\n",
			prompt:   "กด Enter เพื่อเข้าสู่ระบบ, ตัวเลขสำหรับตัวเลือกอื่น หรือ q เพื่อยกเลิก: ",
			invalid:  "ข้อมูลไม่ถูกต้อง",
			option:   "กำลังเปิดตัวเลือกที่ %d\n",
			cancel:   "ยกเลิกการเข้าสู่ระบบ\n",
		},
		{
			welcome:  "一键登录\n",
			operator: "运营商: %s\n",
			options:  "其他登录方式:\n",
			prompt:   "按回车键登录, 输入数字选择其他方式, 输入 q 取消: ",
			invalid:  "输入无效",
			option:   "正在打开登录方式 %d\n",
			cancel:   "已取消登录\n",
		},
	}
	matcher = language.NewMatcher(catalogTags)
)

// textsFor returns the closest catalogue for the BCP-47 language code,
// falling back to English.
func textsFor(code string) texts {
	if code == "" {
		return catalog[0]
	}
	_, idx, conf := matcher.Match(language.Make(code))
	if conf == language.No {
		return catalog[0]
	}
	return catalog[idx]
}

var (
	hOutput *os.File  = os.Stdout
	hInput  io.Reader = os.Stdin

	// readln reads one line from r.  r should be a *bufio.Reader shared
	// between the calls, otherwise buffered input is lost.
	readln = func(r io.Reader) (string, error) {
		br, ok := r.(*bufio.Reader)
		if !ok {
			br = bufio.NewReader(r)
		}
		line, err := br.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	title = color.New(color.Bold, color.FgHiWhite)
	faint = color.New(color.Faint)
	warn  = color.New(color.FgYellow)
)

func clrscr(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// Present implements Presenter.
func (tp TermPresenter) Present(ctx context.Context, s *Screen) (Decision, error) {
	t := textsFor(s.Language)

	clrscr(hOutput)
	title.Fprint(hOutput, t.welcome)
	if s.Logo != nil {
		faint.Fprintf(hOutput, "[%s]\n", tp.label(s.Logo, -1))
	}
	if s.Operator != "" {
		fmt.Fprintf(hOutput, t.operator, s.Operator)
	}
	if len(s.Icons) > 0 {
		fmt.Fprint(hOutput, t.options)
		for i, icon := range s.Icons {
			fmt.Fprintf(hOutput, "  %d) %s\n", i+1, tp.label(icon, i))
		}
	}

	in := bufio.NewReader(hInput)
	for {
		if err := ctx.Err(); err != nil {
			return Dismissed, err
		}
		fmt.Fprint(hOutput, t.prompt)
		line, err := readln(in)
		if err != nil {
			if err == io.EOF {
				fmt.Fprint(hOutput, "\n"+t.cancel)
				return Dismissed, nil
			}
			return Dismissed, err
		}
		switch {
		case line == "":
			return Confirmed, nil
		case strings.EqualFold(line, "q"):
			fmt.Fprint(hOutput, t.cancel)
			return Dismissed, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			warn.Fprintln(hOutput, t.invalid)
			continue
		}
		if err := s.Tap(n - 1); err != nil {
			warn.Fprintln(hOutput, err)
			continue
		}
		fmt.Fprintf(hOutput, t.option, n)
	}
}

// label returns the printable name of the asset.
func (tp TermPresenter) label(a Asset, idx int) string {
	if idx >= 0 && idx < len(tp.Names) {
		return tp.Names[idx]
	}
	switch v := a.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%T", a)
}
