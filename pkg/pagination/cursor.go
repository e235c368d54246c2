package pagination

import (
	"encoding/base64"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// tokenEncoding is the text-safe encoding applied to marshalled sort keys.
// URL-safe without padding, so tokens survive URLs and JSON untouched.
var tokenEncoding = base64.RawURLEncoding

// Cursor is an opaque token encoding the resume position in an ordered
// result set. Tokens are deterministic: equal sort keys produce
// byte-identical tokens.
type Cursor string

func (c Cursor) String() string {
	return string(c)
}

// SortKey is the ordered sequence of (field, value) pairs a cursor is
// derived from. Field order matches the sort spec the key was built for.
type SortKey bson.D

// Codec converts between sort keys and opaque cursor tokens for one sort
// spec. Both directions are pure functions; a Codec is safe for concurrent
// use.
type Codec struct {
	sort SortSpec
}

// NewCodec creates a codec bound to the given sort spec.
func NewCodec(sort SortSpec) (*Codec, error) {
	if err := sort.Validate(); err != nil {
		return nil, err
	}
	return &Codec{sort: sort}, nil
}

// Encode serializes the sort key to BSON and wraps it in a URL-safe token.
func (c *Codec) Encode(key SortKey) (Cursor, error) {
	if len(key) != len(c.sort) {
		return "", &InvalidCursorError{Reason: "sort key does not match sort spec"}
	}
	raw, err := bson.Marshal(bson.D(key))
	if err != nil {
		return "", &InvalidCursorError{Reason: "failed to marshal sort key", Err: err}
	}
	return Cursor(tokenEncoding.EncodeToString(raw)), nil
}

// Decode is the inverse of Encode. It rejects tokens that are not valid
// base64, do not contain a valid BSON document, or whose fields do not
// match the sort spec in count and order. Values are returned as the BSON
// native types they were encoded with; no coercion takes place.
func (c *Codec) Decode(cursor Cursor) (SortKey, error) {
	raw, err := tokenEncoding.DecodeString(string(cursor))
	if err != nil {
		return nil, &InvalidCursorError{Reason: "malformed token", Err: err}
	}
	if err := bson.Raw(raw).Validate(); err != nil {
		return nil, &InvalidCursorError{Reason: "token is not a valid document", Err: err}
	}
	var key bson.D
	if err := bson.Unmarshal(raw, &key); err != nil {
		return nil, &InvalidCursorError{Reason: "token is not a valid document", Err: err}
	}
	if len(key) != len(c.sort) {
		return nil, &InvalidCursorError{Reason: "token does not match sort spec"}
	}
	for i, f := range c.sort {
		if key[i].Key != f.Field {
			return nil, &InvalidCursorError{Reason: "token does not match sort spec"}
		}
	}
	return SortKey(key), nil
}

// keyFromDocument projects the sort spec fields out of a result row.
// Dotted field paths descend into embedded documents. A field absent from
// the row is kept as an explicit null so the key always has one value per
// sort field.
func (c *Codec) keyFromDocument(row bson.Raw) SortKey {
	key := make(SortKey, len(c.sort))
	for i, f := range c.sort {
		val, err := row.LookupErr(strings.Split(f.Field, ".")...)
		if err != nil {
			key[i] = bson.E{Key: f.Field, Value: primitive.Null{}}
			continue
		}
		key[i] = bson.E{Key: f.Field, Value: val}
	}
	return key
}
