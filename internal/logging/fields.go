package logging

// Field names for structured logging.
const (
	FieldError    = "error"
	FieldPath     = "path"
	FieldLanguage = "language"
	FieldReason   = "reason"
	FieldDB       = "db"
	FieldScript   = "script"

	FieldFilesSeen    = "files_seen"
	FieldFilesIndexed = "files_indexed"
	FieldFilesSkipped = "files_skipped"
	FieldFilesPruned  = "files_pruned"
	FieldIntervals    = "intervals"
	FieldFindings     = "findings"
	FieldBuilds       = "builds"
	FieldWorkers      = "workers"
	FieldElapsed      = "elapsed"
)
