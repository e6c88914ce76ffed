package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/aihr/internal/client/countdown"
	"github.com/dmitrijs2005/aihr/internal/client/wizard"
	"github.com/dmitrijs2005/aihr/internal/i18n"
)

const progressWidth = 20

// termView renders the wizard as plain lines. It is called from both the
// input loop and the countdown goroutine.
type termView struct {
	mu  sync.Mutex
	out io.Writer
	tr  i18n.Translator
	// interactive terminals get periodic timer lines; piped sessions only
	// the first one.
	interactive bool
	limit       time.Duration
}

var _ wizard.View = (*termView)(nil)

func newTermView(out io.Writer, tr i18n.Translator, interactive bool, limit time.Duration) *termView {
	return &termView{out: out, tr: tr, interactive: interactive, limit: limit}
}

func (v *termView) ShowStep(step wizard.Step) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch step {
	case wizard.StepLoading:
		fmt.Fprintln(v.out, v.tr.T("loading"))
	case wizard.StepFinalizing:
		fmt.Fprintln(v.out, v.tr.T("finalizing"))
	case wizard.StepFinal:
		fmt.Fprintln(v.out)
		fmt.Fprintln(v.out, v.tr.T("final_title"))
		fmt.Fprintln(v.out, v.tr.T("final_msg"))
	}
}

func (v *termView) ShowQuestion(index, total int, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	fmt.Fprintln(v.out)
	fmt.Fprintln(v.out, progressBar(index, total))
	fmt.Fprintf(v.out, "%s %d/%d: %s\n", v.tr.T("question"), index+1, total, text)
	fmt.Fprintln(v.out, v.tr.T("answer_ph"))
}

func (v *termView) ShowTimer(remaining time.Duration) {
	if !v.timerDue(remaining) {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, v.tr.T("time_remaining")+countdown.Format(remaining))
}

func (v *termView) Alert(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, "! "+v.tr.T(key))
}

// timerDue limits timer output to the start of a question, every half
// minute and the last ten seconds.
func (v *termView) timerDue(remaining time.Duration) bool {
	remaining = remaining.Truncate(time.Second)
	if remaining <= 0 {
		return false
	}
	if remaining == v.limit.Truncate(time.Second) {
		return true
	}
	if !v.interactive {
		return false
	}
	return remaining%(30*time.Second) == 0 || remaining <= 10*time.Second
}

// progressBar draws "[#####---------------]  25%" for the question at
// index out of total.
func progressBar(index, total int) string {
	pct := 0
	if total > 0 {
		pct = index * 100 / total
	}
	filled := pct * progressWidth / 100
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat("-", progressWidth-filled), pct)
}
