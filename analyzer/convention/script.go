package convention

import (
	"bufio"
	"bytes"
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/viant/afs/url"
	"github.com/viant/odoolint/analyzer/diagnostic"
	"github.com/viant/odoolint/analyzer/pass"
)

var defaultLinterArgs = []string{"--format", "unix"}

// unix formatter line: path:line:column: message
var lintLine = regexp.MustCompile(`^(.+?):(\d+):(\d+): (.+)$`)

// ScriptCheck runs an external javascript linter over module scripts
type ScriptCheck struct{}

func (c *ScriptCheck) Name() string    { return "javascript" }
func (c *ScriptCheck) Rules() []string { return []string{diagnostic.JavaScriptLint} }

// Run lints unit scripts, a missing linter binary skips the check
func (c *ScriptCheck) Run(ctx context.Context, p *pass.Pass) error {
	linter := p.Config.JSLinter
	if linter == "" || len(p.Unit.Scripts) == 0 {
		return nil
	}
	binary, err := exec.LookPath(linter)
	if err != nil {
		glog.V(1).Infof("module %s: javascript linter %s not available: %v", p.Unit.Name, linter, err)
		return nil
	}
	args := p.Config.JSLinterArgs
	if args == nil {
		args = defaultLinterArgs
	}
	relative := map[string]string{}
	var files []string
	for _, location := range p.Unit.Scripts {
		file := url.Path(p.Unit.URL(location))
		relative[file] = location
		files = append(files, file)
	}
	cmd := exec.CommandContext(ctx, binary, append(append([]string{}, args...), files...)...)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	runErr := cmd.Run()
	reported := 0
	scanner := bufio.NewScanner(&stdout)
	for scanner.Scan() {
		match := lintLine.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		location, ok := relative[match[1]]
		if !ok {
			continue
		}
		line, _ := strconv.Atoi(match[2])
		column, _ := strconv.Atoi(match[3])
		p.ReportAt(diagnostic.JavaScriptLint, location, line, column, match[4])
		reported++
	}
	if runErr != nil && reported == 0 {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		glog.V(1).Infof("module %s: javascript linter failed: %v", p.Unit.Name, runErr)
	}
	return nil
}
