package errors

// Template defines a registered error type.
type Template struct {
	Category Category
	Message  string
	Detail   string
}

// Registered error codes.
const (
	CodeDataMissing       = "VB001"
	CodeDataNotObject     = "VB002"
	CodeBadRoot           = "VB003"
	CodeConfigNotFound    = "VB004"
	CodeConfigInvalid     = "VB005"
	CodeUnresolvedHandler = "VB010"
	CodeUnknownDirective  = "VB011"
	CodeBadArguments      = "VB012"
	CodeUnresolvedArg     = "VB013"
	CodeMissingRoot       = "VB014"
	CodeUpdateDepth       = "VB020"
	CodeSourceLoad        = "VB030"
	CodeSourceDecode      = "VB031"
	CodeProtocol          = "VB040"
	CodeUnknownTarget     = "VB041"
)

// registry maps error codes to their templates.
var registry = map[string]Template{
	// ============================================
	// Configuration Errors (VB001-VB009)
	// ============================================

	CodeDataMissing: {
		Category: CategoryConfig,
		Message:  "Missing data",
		Detail:   "Options.Data is required; it becomes the reactive store of the view-model.",
	},
	CodeDataNotObject: {
		Category: CategoryConfig,
		Message:  "Data is not an object",
		Detail:   "Options.Data must be a map[string]any whose keys become view-model properties.",
	},
	CodeBadRoot: {
		Category: CategoryConfig,
		Message:  "Unsupported root",
		Detail:   "Options.El must be nil, a selector string or a *vdom.Element.",
	},

	CodeConfigNotFound: {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No vbind.yaml was found in the project directory or its parents.",
	},
	CodeConfigInvalid: {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "vbind.yaml could not be parsed or holds invalid values.",
	},

	// ============================================
	// Compile Errors (VB010-VB019)
	// ============================================

	CodeUnresolvedHandler: {
		Category: CategoryCompile,
		Message:  "Event handler method not found",
		Detail:   "The event directive names a method that is not in the method table. The listener was not attached.",
	},
	CodeUnknownDirective: {
		Category: CategoryCompile,
		Message:  "Unknown directive",
		Detail:   "No directive is registered under this name; the attribute is left untouched.",
	},
	CodeBadArguments: {
		Category: CategoryCompile,
		Message:  "Invalid handler arguments",
		Detail:   "Handler arguments may only be literals, identifiers and $event separated by commas.",
	},
	CodeUnresolvedArg: {
		Category: CategoryRuntime,
		Message:  "Unresolved handler argument",
		Detail:   "An identifier in the handler arguments is neither a data property nor a method.",
	},
	CodeMissingRoot: {
		Category: CategoryCompile,
		Message:  "Root element not found",
		Detail:   "The configured root could not be resolved; nothing was compiled.",
	},

	// ============================================
	// Runtime Errors (VB020-VB029)
	// ============================================

	CodeUpdateDepth: {
		Category: CategoryRuntime,
		Message:  "Maximum update depth exceeded",
		Detail:   "A watcher callback keeps writing the values it depends on. Further nested notifications were dropped.",
	},

	// ============================================
	// IO Errors (VB030-VB039)
	// ============================================

	CodeSourceLoad: {
		Category: CategoryIO,
		Message:  "Cannot load source",
		Detail:   "The template or data source could not be read.",
	},
	CodeSourceDecode: {
		Category: CategoryIO,
		Message:  "Cannot decode data",
		Detail:   "The data file could not be decoded as JSON, YAML or TOML.",
	},

	// ============================================
	// Protocol Errors (VB040-VB049)
	// ============================================

	CodeProtocol: {
		Category: CategoryProtocol,
		Message:  "Invalid session message",
		Detail:   "The live session received a message it could not decode.",
	},
	CodeUnknownTarget: {
		Category: CategoryProtocol,
		Message:  "Event target not found",
		Detail:   "The hydration ID referenced by an event does not exist in the current tree.",
	},
}

// GetAllCodes returns all registered error codes.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (Template, bool) {
	t, ok := registry[code]
	return t, ok
}
