package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldFile is the structured log field key for the resume file being processed.
	FieldFile = "file"
	// FieldFormat is the structured log field key for the normalized document extension.
	FieldFormat = "format"
	// FieldBatchID is the structured log field key for the screening batch identifier.
	FieldBatchID = "batch_id"
	// FieldFolder is the structured log field key for the screened folder.
	FieldFolder = "folder"
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// If the logger is nil or no fields are supplied, the input logger is returned
// unchanged, defaulting to a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// DocumentFields describes a single resume document.
func DocumentFields(file, format string) []zap.Field {
	return StringFields(
		StringField{Key: FieldFile, Value: file},
		StringField{Key: FieldFormat, Value: format},
	)
}

// WithBatch attaches the batch identifier and folder to the provided logger.
func WithBatch(logger *zap.Logger, batchID, folder string) *zap.Logger {
	return WithFields(logger, StringFields(
		StringField{Key: FieldBatchID, Value: batchID},
		StringField{Key: FieldFolder, Value: folder},
	)...)
}

// AIFields returns the fields that describe an AI provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func AIFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}
