package rpc

import (
	"encoding/json"

	"iris-api/internal/shared"
)

// fallbackEnvelope is emitted when encoding itself fails. It must stay a
// valid envelope on its own so the caller never sees a truncated body.
var fallbackEnvelope = []byte(`{"id":null,"error":{"code":-32603,"message":"internal error"}}`)

// EncodeSuccess serializes {"id":<id>,"result":<value>}. Binary fields of
// value ([]byte) come out as base64 strings, strings are quote-escaped by
// the marshaller. If value cannot be marshalled the caller gets a complete
// internal-error envelope instead, never a partial write.
func EncodeSuccess(id *int64, value any) []byte {
	raw, err := json.Marshal(value)
	if err != nil {
		return EncodeError(id, shared.CodeInternal, "response encoding failed")
	}
	b, err := json.Marshal(Response{ID: id, Result: raw})
	if err != nil {
		return fallbackEnvelope
	}
	return b
}

// EncodeError serializes {"id":<id|null>,"error":{"code":...,"message":...}}.
func EncodeError(id *int64, code int, message string) []byte {
	b, err := json.Marshal(Response{ID: id, Error: &ErrorObject{Code: code, Message: message}})
	if err != nil {
		return fallbackEnvelope
	}
	return b
}
