package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/samber/mo"

	"pulsarbot/core"
)

// User is a user record as returned by the backend. Every field is optional on the wire.
type User struct {
	ID          mo.Option[string]
	SteamID     mo.Option[uint64]
	GmodstoreID mo.Option[string]
	DiscordID   mo.Option[uint64]
	Error       mo.Option[string]
}

// Addon is one entry of a user's addon list
type Addon struct {
	ID    mo.Option[string]
	Name  mo.Option[string]
	Error mo.Option[string]
}

// Wire shapes decode into pointers so that an explicit JSON null is absent,
// same as an omitted field.
type userPayload struct {
	ID          *string `json:"id"`
	SteamID     *uint64 `json:"steamId"`
	GmodstoreID *string `json:"gmodstoreId"`
	DiscordID   *uint64 `json:"discordId"`
	Error       *string `json:"error"`
}

type addonPayload struct {
	ID    *string `json:"id"`
	Name  *string `json:"name"`
	Error *string `json:"error"`
}

type errorPayload struct {
	Error *string `json:"error"`
}

func (p userPayload) toUser() User {
	if p.Error != nil {
		return User{Error: mo.PointerToOption(p.Error)}
	}
	return User{
		ID:          mo.PointerToOption(p.ID),
		SteamID:     mo.PointerToOption(p.SteamID),
		GmodstoreID: mo.PointerToOption(p.GmodstoreID),
		DiscordID:   mo.PointerToOption(p.DiscordID),
	}
}

func (p addonPayload) toAddon() Addon {
	if p.Error != nil {
		return Addon{Error: mo.PointerToOption(p.Error)}
	}
	return Addon{
		ID:   mo.PointerToOption(p.ID),
		Name: mo.PointerToOption(p.Name),
	}
}

// DecodeUser decodes a user payload. When the backend reports an error,
// every other field is discarded regardless of what the payload contains.
func DecodeUser(body []byte) (User, error) {
	var payload userPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return User{}, core.FromCause(err, core.KindDecode).Attach("failed to decode user payload")
	}
	return payload.toUser(), nil
}

type AddonsResponseKind int

const (
	AddonsResponseList AddonsResponseKind = iota
	AddonsResponseError
)

// AddonsResponse is the decoded addon-listing payload. The backend answers
// either with an array of addons or with an error object; Kind says which.
type AddonsResponse struct {
	Kind   AddonsResponseKind
	Addons []Addon
	Error  string
}

// DecodeAddonsResponse picks the payload shape from the first JSON token and
// decodes accordingly. A payload matching neither shape is a decode error.
func DecodeAddonsResponse(body []byte) (AddonsResponse, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return AddonsResponse{}, core.NewError(core.KindDecode, "empty addons payload")
	}

	switch trimmed[0] {
	case '[':
		var payloads []addonPayload
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return AddonsResponse{}, core.FromCause(err, core.KindDecode).Attach("failed to decode addons list")
		}
		addons := make([]Addon, 0, len(payloads))
		for _, payload := range payloads {
			addons = append(addons, payload.toAddon())
		}
		return AddonsResponse{Kind: AddonsResponseList, Addons: addons}, nil
	case '{':
		var payload errorPayload
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return AddonsResponse{}, core.FromCause(err, core.KindDecode).Attach("failed to decode addons error payload")
		}
		if payload.Error == nil {
			return AddonsResponse{}, core.NewError(core.KindDecode, "addons payload object has no error field")
		}
		return AddonsResponse{Kind: AddonsResponseError, Error: *payload.Error}, nil
	default:
		return AddonsResponse{}, core.NewError(core.KindDecode, "unexpected addons payload: %s", preview(trimmed))
	}
}

func preview(body []byte) string {
	const limit = 64
	if len(body) > limit {
		return fmt.Sprintf("%q...", body[:limit])
	}
	return fmt.Sprintf("%q", body)
}
