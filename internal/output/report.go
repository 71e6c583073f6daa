package output

import (
	"io"

	"github.com/rpgo/budgetcast/internal/domain"
)

// GenerateReport formats report with the named formatter and writes it to w.
func GenerateReport(w io.Writer, report *domain.Report, format string) error {
	f := GetFormatterByName(format)
	if f == nil {
		return unsupported(format)
	}
	data, err := f.Format(report)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReportFile writes report to filename, or to DefaultReportFilename when
// filename is empty. It returns the path written.
func GenerateReportFile(report *domain.Report, format, filename string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", unsupported(format)
	}
	if filename == "" {
		filename = DefaultReportFilename(report, f.Name())
	}
	if err := WriteFormatted(f, report, filename); err != nil {
		return "", err
	}
	return filename, nil
}
