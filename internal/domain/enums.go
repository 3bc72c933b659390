package domain

// Method identifies which resolution tier produced a result.
type Method string

const (
	MethodExactMatch      Method = "exact_match"
	MethodExactPriority   Method = "exact_priority"
	MethodFuzzyMatch      Method = "fuzzy_match"
	MethodFuzzyPriority   Method = "fuzzy_priority"
	MethodNeedsEscalation Method = "needs_escalation"
	MethodUnresolved      Method = "unresolved"
	MethodExternal        Method = "external"
)

// ValidMethods enumerates every resolution method.
var ValidMethods = map[Method]bool{
	MethodExactMatch:      true,
	MethodExactPriority:   true,
	MethodFuzzyMatch:      true,
	MethodFuzzyPriority:   true,
	MethodNeedsEscalation: true,
	MethodUnresolved:      true,
	MethodExternal:        true,
}

// Origin tells whether a result was produced locally or by the external validator.
type Origin string

const (
	OriginLocal    Origin = "local"
	OriginExternal Origin = "external"
)

// ConfidenceLabel is the coarse three-level confidence returned by the
// external validator, distinct from the engine's internal float confidence.
type ConfidenceLabel string

const (
	ConfidenceAlta  ConfidenceLabel = "alta"
	ConfidenceMedia ConfidenceLabel = "media"
	ConfidenceBaja  ConfidenceLabel = "baja"
)

// Score maps a coarse label to the float confidence recorded on merged results.
func (l ConfidenceLabel) Score() float64 {
	switch l {
	case ConfidenceAlta:
		return 0.95
	case ConfidenceMedia:
		return 0.75
	default:
		return 0.50
	}
}

// DocumentStatus represents the resolution lifecycle of a submitted document.
type DocumentStatus string

const (
	DocumentStatusQueued          DocumentStatus = "queued"
	DocumentStatusResolving       DocumentStatus = "resolving"
	DocumentStatusResolved        DocumentStatus = "resolved"
	DocumentStatusResolvedPartial DocumentStatus = "resolved_partial"
	DocumentStatusFailed          DocumentStatus = "failed"
)

// ExportFormat identifies a supported export artifact format.
type ExportFormat string

const (
	ExportFormatTOON ExportFormat = "toon"
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

// ValidExportFormats enumerates the supported export formats.
var ValidExportFormats = map[ExportFormat]bool{
	ExportFormatTOON: true,
	ExportFormatCSV:  true,
	ExportFormatXLSX: true,
}
