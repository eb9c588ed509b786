package ports

import (
	"context"

	"scenforge/domain/scenario"
)

// RecordValidator checks an assembled record after all operations complete.
// It returns the record (possibly coerced) or fails with a descriptive
// error; the engine propagates that error unchanged and never inspects its
// shape.
type RecordValidator interface {
	Validate(ctx context.Context, record scenario.Record) (scenario.Record, error)
}
