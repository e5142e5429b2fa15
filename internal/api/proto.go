package api

import (
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// The mobile API speaks protobuf without published schemas. Messages are
// modeled as maps from field number to value, mirroring the payloads the
// Android client sends, and serialized with the low-level wire package.
//
// Supported value types:
//
//	int, int64, uint64  varint
//	string, []byte      length-delimited scalar
//	message             nested message
//	[]any               repeated field
type message map[int]any

// marshal serializes m with fields in ascending field-number order so the
// output is deterministic.
func (m message) marshal() []byte {
	fields := make([]int, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Ints(fields)

	var b []byte
	for _, f := range fields {
		b = appendField(b, f, m[f])
	}
	return b
}

func appendField(b []byte, field int, v any) []byte {
	num := protowire.Number(field)
	switch val := v.(type) {
	case int:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(val))
	case int64:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(val))
	case uint64:
		b = protowire.AppendTag(b, num, protowire.VarintType)
		b = protowire.AppendVarint(b, val)
	case string:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendString(b, val)
	case []byte:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, val)
	case message:
		b = protowire.AppendTag(b, num, protowire.BytesType)
		b = protowire.AppendBytes(b, val.marshal())
	case []any:
		for _, item := range val {
			b = appendField(b, field, item)
		}
	default:
		panic(fmt.Sprintf("proto: unsupported field type %T", v))
	}
	return b
}

// parseMessage decodes a wire message into a field-number map. Length
// delimited fields are kept as raw []byte; nested messages are decoded
// lazily via dig. Repeated fields collapse into []any.
func parseMessage(b []byte) (message, error) {
	m := message{}
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return nil, protowire.ParseError(n)
		}
		b = b[n:]

		var val any
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			val, b = v, b[n:]
		case protowire.Fixed32Type:
			v, n := protowire.ConsumeFixed32(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			val, b = uint64(v), b[n:]
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			val, b = v, b[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return nil, protowire.ParseError(n)
			}
			val, b = v, b[n:]
		default:
			return nil, fmt.Errorf("proto: unsupported wire type %d for field %d", typ, num)
		}

		f := int(num)
		if prev, ok := m[f]; ok {
			if list, ok := prev.([]any); ok {
				m[f] = append(list, val)
			} else {
				m[f] = []any{prev, val}
			}
		} else {
			m[f] = val
		}
	}
	return m, nil
}

// dig walks a parsed message along a field-number path, decoding nested
// bytes fields as messages on the way. It returns nil if any hop is
// missing or not a message.
func dig(m message, path ...int) any {
	cur := any(m)
	for _, f := range path {
		msg, err := asMessage(cur)
		if err != nil {
			return nil
		}
		next, ok := msg[f]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

func asMessage(v any) (message, error) {
	switch val := v.(type) {
	case message:
		return val, nil
	case []byte:
		return parseMessage(val)
	default:
		return nil, fmt.Errorf("proto: value %T is not a message", v)
	}
}

// digString returns the string at path, or "" if absent.
func digString(m message, path ...int) string {
	v := dig(m, path...)
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
