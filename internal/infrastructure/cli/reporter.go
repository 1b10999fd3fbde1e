package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/reviewassist/reviewctl/internal/domain"
	"github.com/reviewassist/reviewctl/internal/ports"
)

// Reporter renders workflow progress as a checklist. Styling is only
// applied when the destination is a terminal, so piped output stays
// plain.
type Reporter struct {
	out   io.Writer
	pass  lipgloss.Style
	warn  lipgloss.Style
	fail  lipgloss.Style
	title lipgloss.Style
	muted lipgloss.Style
}

// NewReporter builds a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	r := &Reporter{out: out}

	styled := false
	if f, ok := out.(*os.File); ok {
		styled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if styled {
		r.pass = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
		r.warn = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
		r.fail = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		r.title = lipgloss.NewStyle().Bold(true)
		r.muted = lipgloss.NewStyle().Faint(true)
	} else {
		plain := lipgloss.NewStyle()
		r.pass, r.warn, r.fail, r.title, r.muted = plain, plain, plain, plain, plain
	}
	return r
}

// Phase implements ports.Reporter.
func (r *Reporter) Phase(name string) {
	fmt.Fprintf(r.out, "\n%s\n", r.title.Render(name))
}

// Result implements ports.Reporter.
func (r *Reporter) Result(result domain.CheckResult) {
	var prefix string
	switch result.Status {
	case domain.CheckPassed:
		prefix = r.pass.Render("[PASS]")
	case domain.CheckWarning:
		prefix = r.warn.Render("[WARN]")
	default:
		prefix = r.fail.Render("[FAIL]")
	}
	fmt.Fprintf(r.out, "%s  %-42s  %s\n", prefix, result.Name, result.Message)
}

// Info implements ports.Reporter. Multi-line messages (journal tails,
// installer output) are indented line by line.
func (r *Reporter) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	for _, line := range strings.Split(msg, "\n") {
		fmt.Fprintf(r.out, "   %s\n", r.muted.Render(line))
	}
}

// Summary implements ports.Reporter.
func (r *Reporter) Summary(report *domain.RunReport) {
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s %d   %s %d   %s %d\n",
		r.pass.Render("passed:"), report.Passed,
		r.warn.Render("warnings:"), report.Warned,
		r.fail.Render("failed:"), report.Failed)

	switch {
	case report.Failed > 0:
		fmt.Fprintln(r.out, r.fail.Render("Some checks failed."))
	case report.Warned > 0:
		fmt.Fprintln(r.out, r.warn.Render("All checks passed, with warnings."))
	default:
		fmt.Fprintln(r.out, r.pass.Render("All checks passed."))
	}
}

var _ ports.Reporter = (*Reporter)(nil)
