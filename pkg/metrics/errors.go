package metrics

import "errors"

// ErrUnknownKind is returned by RecordStandingsComputed for a kind other than
// KindBase or KindProjection.
var ErrUnknownKind = errors.New("metrics: unknown standings kind")
