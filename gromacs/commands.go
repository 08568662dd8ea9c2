package gromacs

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ParseCommands reads one command per line. Blank lines and lines
// starting with # are skipped. Quoting follows shell rules, but
// variables, globs, pipes and redirections are not supported.
func ParseCommands(r io.Reader) ([]Command, error) {
	parser := shellwords.NewParser()
	parser.ParseEnv = false
	parser.ParseBacktick = false
	var cmds []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words, err := parser.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", lineNo, err)
		}
		if parser.Position >= 0 {
			// The parser stops at the first unquoted ; | & or >
			return nil, fmt.Errorf("line %d: shell operators are not supported: %q", lineNo, line)
		}
		if len(words) == 0 {
			continue
		}
		cmds = append(cmds, Cmd(words[0], words[1:]...))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %v", err)
	}
	return cmds, nil
}
