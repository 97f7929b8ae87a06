package discord

import (
	"time"

	"github.com/ulule/limiter/v3"

	"codedrop/internal/ports/input"
	"codedrop/internal/ports/output"
)

// Handler handles Discord messages using use cases.
type Handler struct {
	setupUseCase  input.SetupUseCase
	claimUseCase  input.ClaimUseCase
	eventUseCase  input.EventUseCase
	tr            output.T
	locale        string
	prefix        string
	organizerRole string
	location      *time.Location
	claimLimiter  *limiter.Limiter
}

// NewHandler creates a Handler.
func NewHandler(
	setupUseCase input.SetupUseCase,
	claimUseCase input.ClaimUseCase,
	eventUseCase input.EventUseCase,
	tr output.T,
	locale, prefix, organizerRole string,
	location *time.Location,
	claimLimiter *limiter.Limiter,
) *Handler {
	return &Handler{
		setupUseCase:  setupUseCase,
		claimUseCase:  claimUseCase,
		eventUseCase:  eventUseCase,
		tr:            tr,
		locale:        locale,
		prefix:        prefix,
		organizerRole: organizerRole,
		location:      location,
		claimLimiter:  claimLimiter,
	}
}

func (h *Handler) t(key string, data map[string]any) string {
	return h.tr.T(h.locale, key, data)
}
