package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/okian/handicap/internal/domain/model"
	"github.com/okian/handicap/pkg/logger"
	"github.com/okian/handicap/pkg/metrics"
)

// Decode parses a stored document. Empty or malformed input yields the
// default document; a reset is logged and counted. Missing fields are
// filled so older documents load with the current shape.
func Decode(ctx context.Context, log logger.Logger, source string, raw []byte) *model.Document {
	if len(bytes.TrimSpace(raw)) == 0 {
		return model.NewDocument()
	}
	var doc model.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		if log == nil {
			log = logger.NewNop()
		}
		log.Warn(ctx, "malformed document, starting from empty",
			logger.String("store", source),
			logger.Error(err))
		metrics.RecordDocumentReset()
		return model.NewDocument()
	}
	doc.Normalize()
	return &doc
}

// Encode renders doc as indented JSON.
func Encode(doc *model.Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
