package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound      = errors.New("événement non trouvé")
	ErrInvalidDateTime    = errors.New("date/heure invalide")
	ErrEndBeforeStart     = errors.New("la fin doit être après le début")
	ErrUnknownChannel     = errors.New("salon inconnu")
	ErrDuplicatePass      = errors.New("pass déjà utilisé par un événement actif")
	ErrEmptyPass          = errors.New("pass vide")
	ErrMissingPlaceholder = errors.New("le message de réponse ne contient pas {code}")
	ErrTooManyAttachments = errors.New("un seul fichier est accepté")
	ErrCodeFileUnreadable = errors.New("fichier de codes illisible")
	ErrSessionOpen        = errors.New("une configuration est déjà en cours")
	ErrNoSession          = errors.New("aucune configuration en cours")
	ErrAlreadyClaimed     = errors.New("code déjà réclamé pour cet événement")
	ErrCodesExhausted     = errors.New("plus aucun code disponible")
	ErrBanned             = errors.New("utilisateur banni")
	ErrNotOrganizer       = errors.New("permission organisateur manquante")
	ErrDMUnavailable      = errors.New("message privé impossible à envoyer")
)

var codes = map[error]string{
	ErrEventNotFound:      "event_not_found",
	ErrInvalidDateTime:    "invalid_datetime",
	ErrEndBeforeStart:     "end_before_start",
	ErrUnknownChannel:     "unknown_channel",
	ErrDuplicatePass:      "duplicate_pass",
	ErrEmptyPass:          "empty_pass",
	ErrMissingPlaceholder: "missing_placeholder",
	ErrTooManyAttachments: "too_many_attachments",
	ErrCodeFileUnreadable: "code_file_unreadable",
	ErrSessionOpen:        "session_open",
	ErrNoSession:          "no_session",
	ErrAlreadyClaimed:     "already_claimed",
	ErrCodesExhausted:     "codes_exhausted",
	ErrBanned:             "banned",
	ErrNotOrganizer:       "not_organizer",
	ErrDMUnavailable:      "dm_unavailable",
}

// Code returns the stable identifier of the domain error wrapped in err, or ""
// when err does not wrap one. The identifier doubles as the i18n key suffix
// ("errors.<code>").
func Code(err error) string {
	if err == nil {
		return ""
	}
	for sentinel, code := range codes {
		if errors.Is(err, sentinel) {
			return code
		}
	}
	return ""
}
