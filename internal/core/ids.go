package core

import (
	"strings"

	"github.com/google/uuid"
)

// Order and trade identifiers follow the ORD-/TRD- prefix scheme with
// an uppercased UUID chunk; uniqueness within the process lifetime is
// the only property relied on.

func newOrderID() string {
	return "ORD-" + idChunk()
}

func newTradeID() string {
	return "TRD-" + idChunk()
}

func idChunk() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
