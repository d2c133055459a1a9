package service

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"issue-tracking/internal/apperr"
	"issue-tracking/internal/models"
	"issue-tracking/internal/repository"
)

type patchDecoder func(raw json.RawMessage) (any, error)

var ticketPatchDecoders = map[string]patchDecoder{
	"title":            decodeTitle,
	"description":      decodeString,
	"assignee":         decodeRef,
	"reporter":         decodeRef,
	"externalReporter": decodeRef,
	"status":           decodeEnum(models.TicketStatuses),
	"priority":         decodeEnum(models.TicketPriorities),
	"ticketType":       decodeEnum(models.TicketTypes),
	"assignToTeam":     decodeBool,
	"estimatedTime":    decodeNumber,
	"deadline":         decodeDeadline,
	"isSubtask":        decodeBool,
	"parentTask":       decodeRef,
}

// DecodeTicketPatch turns a JSON object into typed attribute updates, ordered
// by attribute name. Attributes that tickets do not have are dropped.
func DecodeTicketPatch(body []byte) ([]repository.FieldValue, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, apperr.Validation("", "body must be a JSON object")
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		if _, ok := ticketPatchDecoders[k]; ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]repository.FieldValue, 0, len(keys))
	for _, k := range keys {
		v, err := ticketPatchDecoders[k](raw[k])
		if err != nil {
			return nil, apperr.Validation(k, err.Error())
		}
		out = append(out, repository.FieldValue{Field: k, Value: v})
	}
	return out, nil
}

type decodeError string

func (e decodeError) Error() string { return string(e) }

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func decodeString(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, decodeError("must be a string")
	}
	return s, nil
}

func decodeTitle(raw json.RawMessage) (any, error) {
	v, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	s := strings.TrimSpace(v.(string))
	if s == "" {
		return nil, decodeError("must not be empty")
	}
	return s, nil
}

// decodeRef accepts an identifier string or null, which clears it.
func decodeRef(raw json.RawMessage) (any, error) {
	v, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	return strings.TrimSpace(v.(string)), nil
}

func decodeEnum(members []string) patchDecoder {
	return func(raw json.RawMessage) (any, error) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, decodeError("must be a string")
		}
		if !member(members, s) {
			return nil, decodeError("must be one of " + strings.Join(members, ", "))
		}
		return s, nil
	}
}

func decodeBool(raw json.RawMessage) (any, error) {
	var b bool
	if isNull(raw) || json.Unmarshal(raw, &b) != nil {
		return nil, decodeError("must be a boolean")
	}
	return b, nil
}

func decodeNumber(raw json.RawMessage) (any, error) {
	var f float64
	if isNull(raw) || json.Unmarshal(raw, &f) != nil {
		return nil, decodeError("must be a number")
	}
	if f < 0 {
		return nil, decodeError("must not be negative")
	}
	return f, nil
}

// decodeDeadline accepts RFC 3339, a bare date, or null.
func decodeDeadline(raw json.RawMessage) (any, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, decodeError("must be a date string")
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return nil, decodeError("must be an RFC 3339 timestamp or YYYY-MM-DD")
}
