package cli

import (
	"fmt"
	"io"
	"os"
)

// Output writes notices to the standard stream and problems to the error
// stream. Colors are only used when the standard stream is a terminal.
type Output struct {
	out          io.Writer
	err          io.Writer
	enableColors bool
}

func NewOutput() *Output {
	return NewOutputTo(os.Stdout, os.Stderr)
}

func NewOutputTo(out, err io.Writer) *Output {
	return &Output{
		out:          out,
		err:          err,
		enableColors: isTerminal(out),
	}
}

func (o *Output) Out() io.Writer {
	return o.out
}

func (o *Output) Err() io.Writer {
	return o.err
}

func (o *Output) DisableColors() {
	o.enableColors = false
}

func (o *Output) Green(text string) string {
	return o.paint("\033[32m", text)
}

func (o *Output) Yellow(text string) string {
	return o.paint("\033[33m", text)
}

func (o *Output) Red(text string) string {
	return o.paint("\033[31m", text)
}

func (o *Output) Gray(text string) string {
	return o.paint("\033[90m", text)
}

func (o *Output) paint(code, text string) string {
	if !o.enableColors {
		return text
	}
	return code + text + "\033[0m"
}

func (o *Output) PrintHeader(msg string) {
	fmt.Fprintln(o.out, msg)
	fmt.Fprintln(o.out)
}

// PrintNotice writes msg unadorned, one line per call.
func (o *Output) PrintNotice(msg string, args ...any) {
	fmt.Fprintf(o.out, msg+"\n", args...)
}

func (o *Output) PrintSuccess(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Green("✓ ")+"%s\n", formatted)
}

func (o *Output) PrintWarning(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintf(o.out, "  "+o.Yellow("⚠ ")+"%s\n", formatted)
}

// PrintError writes one line to the error stream. The text is kept verbatim
// so callers can grep for it.
func (o *Output) PrintError(msg string, args ...any) {
	formatted := fmt.Sprintf(msg, args...)
	fmt.Fprintln(o.err, o.Red(formatted))
}

func (o *Output) PrintFile(path string) {
	fmt.Fprintf(o.out, "    %s\n", path)
}

func (o *Output) PrintDone(msg string) {
	fmt.Fprintln(o.out, o.Green(msg))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == os.ModeCharDevice
}
