package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"
	"github.com/reglet-dev/portcfg/internal/application/dto"
)

const (
	ruleResolved   = "portcfg/resolved"
	ruleUnresolved = "portcfg/unresolved"
)

// SARIFFormatter writes matrix runs as SARIF 2.1.0 JSON. Every combination
// becomes a result: resolved ones as notes, failures as errors.
type SARIFFormatter struct {
	writer      io.Writer
	toolVersion string
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer, toolVersion string) *SARIFFormatter {
	return &SARIFFormatter{writer: writer, toolVersion: toolVersion}
}

// FormatMatrix writes the matrix run as SARIF.
func (f *SARIFFormatter) FormatMatrix(resp *dto.MatrixResponse) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI("portcfg", "https://github.com/reglet-dev/portcfg")
	if f.toolVersion != "" {
		run.Tool.Driver.Version = ptrString(f.toolVersion)
	}

	run.Tool.Driver.AddRule(newRule(ruleResolved, "Combination resolved", "note"))
	run.Tool.Driver.AddRule(newRule(ruleUnresolved, "Combination cannot be configured", "error"))

	for _, c := range resp.Cases {
		run.AddResult(mapCase(c))
	}

	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(resp.Failed == 0)
	run.AddInvocation(invocation)

	props := sarif.NewPropertyBag()
	props.Add("resolved", resp.Resolved)
	props.Add("failed", resp.Failed)
	run.WithProperties(props)

	report.AddRun(run)

	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

func newRule(id, description, level string) *sarif.ReportingDescriptor {
	rule := sarif.NewReportingDescriptor().WithID(id)
	rule.WithShortDescription(&sarif.MultiformatMessageString{Text: ptrString(description)})
	rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: level})
	return rule
}

func mapCase(c dto.MatrixCase) *sarif.Result {
	label := fmt.Sprintf("%s %s, %d-bit %s, large files %t", c.Compiler, c.Version, c.PointerWidth, c.DataModel, c.LargeFile)

	var result *sarif.Result
	if c.OK() {
		result = sarif.NewRuleResult(ruleResolved)
		result.Level = "note"
		result.Kind = "pass"
		result.Message = sarif.NewTextMessage(fmt.Sprintf("%s: rule %s, offset %s", label, c.Rule, c.Offset))
	} else {
		result = sarif.NewRuleResult(ruleUnresolved)
		result.Level = "error"
		result.Kind = "fail"
		result.Message = sarif.NewTextMessage(fmt.Sprintf("%s: %s", label, c.Error))
	}

	props := sarif.NewPropertyBag()
	props.Add("compiler", c.Compiler)
	props.Add("pointer_width", c.PointerWidth)
	props.Add("data_model", c.DataModel)
	props.Add("large_file", c.LargeFile)
	if c.Fingerprint != "" {
		props.Add("fingerprint", c.Fingerprint)
	}
	result.WithProperties(props)
	return result
}

func ptrString(s string) *string {
	return &s
}

func ptrBool(b bool) *bool {
	return &b
}
