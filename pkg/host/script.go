package host

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Step is one line of a host script: either a lifecycle event or a command
// invocation (a ribbon button press).
type Step struct {
	Line    int
	Event   *Event
	Command string
	Args    []string
}

func (s Step) String() string {
	if s.Event != nil {
		return s.Event.String()
	}
	return strings.TrimSpace(s.Command + " " + strings.Join(s.Args, " "))
}

var verbs = map[string]Kind{
	"open":    DocumentOpened,
	"focus":   DocumentFocused,
	"closing": DocumentClosing,
	"closed":  DocumentClosed,
}

// Commands that a script may invoke, with their argument count.
var scriptCommands = map[string]int{
	"toggle":       1,
	"update-signs": 0,
	"add-sign":     1,
	"status":       0,
}

// ParseLine parses one script line. Blank lines and # comments yield ok=false.
//
//	open A.rvt          document opened
//	focus A.rvt         view activated
//	closing A.rvt       document about to close
//	closed A.rvt        document closed
//	close A.rvt         closing followed by closed
//	toggle active|debug press a toggle button
//	add-sign <room>     add a sign to the focused document
//	update-signs        refresh sign info
//	status              print the focused state
func ParseLine(n int, line string) (steps []Step, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	verb = strings.ToLower(verb)

	if kind, found := verbs[verb]; found {
		if rest == "" {
			return nil, false, fmt.Errorf("line %d: %s requires a document name", n, verb)
		}
		return []Step{{Line: n, Event: &Event{Kind: kind, Name: rest}}}, true, nil
	}

	if verb == "close" {
		if rest == "" {
			return nil, false, fmt.Errorf("line %d: close requires a document name", n)
		}
		return []Step{
			{Line: n, Event: &Event{Kind: DocumentClosing, Name: rest}},
			{Line: n, Event: &Event{Kind: DocumentClosed, Name: rest}},
		}, true, nil
	}

	want, found := scriptCommands[verb]
	if !found {
		return nil, false, fmt.Errorf("line %d: unknown step %q", n, verb)
	}
	var args []string
	if rest != "" {
		if want == 1 {
			args = []string{rest}
		} else {
			args = strings.Fields(rest)
		}
	}
	if len(args) != want {
		return nil, false, fmt.Errorf("line %d: %s takes %d argument(s), got %d", n, verb, want, len(args))
	}
	return []Step{{Line: n, Command: verb, Args: args}}, true, nil
}

// ParseScript reads a whole script.
func ParseScript(r io.Reader) ([]Step, error) {
	var steps []Step
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		parsed, ok, err := ParseLine(n, scanner.Text())
		if err != nil {
			return nil, err
		}
		if ok {
			steps = append(steps, parsed...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return steps, nil
}
