package core

import "strings"

// ResourceType classifies what a URL points at.
type ResourceType string

const (
	ResourceHTML    ResourceType = "html"
	ResourcePDF     ResourceType = "pdf"
	ResourceCSV     ResourceType = "csv"
	ResourceXLSX    ResourceType = "xlsx"
	ResourceJSON    ResourceType = "json"
	ResourceZIP     ResourceType = "zip"
	ResourceAPI     ResourceType = "api"
	ResourceUnknown ResourceType = "unknown"
)

// DetectResourceType classifies a resource from its Content-Type header and,
// failing that, from the URL itself. The header wins when both disagree.
// Either argument may be empty.
func DetectResourceType(rawURL, contentType string) ResourceType {
	ct := strings.ToLower(contentType)
	switch {
	case ct == "":
	case strings.Contains(ct, "text/html"):
		return ResourceHTML
	case strings.Contains(ct, "application/pdf"):
		return ResourcePDF
	case strings.Contains(ct, "text/csv"), strings.Contains(ct, "application/csv"):
		return ResourceCSV
	case strings.Contains(ct, "application/json"):
		return ResourceJSON
	case strings.Contains(ct, "zip"):
		return ResourceZIP
	case strings.Contains(ct, "spreadsheet"), strings.Contains(ct, "excel"):
		return ResourceXLSX
	}

	u := strings.ToLower(rawURL)
	switch {
	case strings.Contains(u, ".pdf"):
		return ResourcePDF
	case strings.Contains(u, ".csv"):
		return ResourceCSV
	case strings.Contains(u, ".xlsx"), strings.Contains(u, ".xls"):
		return ResourceXLSX
	case strings.Contains(u, ".zip"):
		return ResourceZIP
	}
	return ResourceUnknown
}
