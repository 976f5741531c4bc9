package formatters

import (
	"encoding/json"
	"fmt"
	"strings"

	"skillparse/internal/types"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter("json", "any", &JSONFormatter{})
	registry.RegisterFormatter("text", "CandidateRecord", &CandidateTextFormatter{})
	registry.RegisterFormatter("markdown", "CandidateRecord", &CandidateMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the appropriate formatter
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		// Fall back to generic formatter
		if formatter, exists := formatters["any"]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	return formats
}

func getDataType(data any) string {
	switch data.(type) {
	case types.CandidateRecord:
		return "CandidateRecord"
	default:
		return "any"
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return "any"
}

// CandidateTextFormatter renders a candidate record as plain text
type CandidateTextFormatter struct{}

func (ctf *CandidateTextFormatter) Format(data any) (string, error) {
	record, ok := data.(types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected CandidateRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString("=== CANDIDATE ===\n")
	output.WriteString(fmt.Sprintf("Name:          %s\n", record.Name))
	output.WriteString(fmt.Sprintf("Seniority:     %s\n", record.Seniority))
	output.WriteString(fmt.Sprintf("Qualification: %s\n", record.Qualification))
	output.WriteString("\n=== SCORES ===\n")
	output.WriteString(fmt.Sprintf("Frontend: %d/100\n", record.FEScore))
	output.WriteString(fmt.Sprintf("Backend:  %d/100\n", record.BEScore))
	output.WriteString("\n=== SKILLS ===\n")
	if len(record.Skills) == 0 {
		output.WriteString("(none detected)\n")
	}
	for _, skill := range record.Skills {
		output.WriteString(fmt.Sprintf("- %s\n", skill))
	}

	return output.String(), nil
}

func (ctf *CandidateTextFormatter) SupportedType() string {
	return "CandidateRecord"
}

// CandidateMarkdownFormatter renders a candidate record as Markdown
type CandidateMarkdownFormatter struct{}

func (cmf *CandidateMarkdownFormatter) Format(data any) (string, error) {
	record, ok := data.(types.CandidateRecord)
	if !ok {
		return "", fmt.Errorf("expected CandidateRecord, got %T", data)
	}

	var output strings.Builder

	output.WriteString(fmt.Sprintf("# %s\n\n", record.Name))
	output.WriteString("| Field | Value |\n")
	output.WriteString("|-------|-------|\n")
	output.WriteString(fmt.Sprintf("| Seniority | %s |\n", record.Seniority))
	output.WriteString(fmt.Sprintf("| Qualification | %s |\n", record.Qualification))
	output.WriteString(fmt.Sprintf("| Frontend score | %d/100 |\n", record.FEScore))
	output.WriteString(fmt.Sprintf("| Backend score | %d/100 |\n\n", record.BEScore))

	output.WriteString("## Skills\n\n")
	if len(record.Skills) == 0 {
		output.WriteString("_None detected._\n")
	}
	for _, skill := range record.Skills {
		output.WriteString(fmt.Sprintf("- %s\n", skill))
	}

	return output.String(), nil
}

func (cmf *CandidateMarkdownFormatter) SupportedType() string {
	return "CandidateRecord"
}
