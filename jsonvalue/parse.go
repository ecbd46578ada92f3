package jsonvalue

import (
	"io"

	"github.com/jsonstream/jsonstream"
)

// ParseString parses s as a single JSON value, the jsonvalue equivalent of
// a library's Unmarshal for the common "I just have a whole document"
// case. It is a thin convenience over jsonstream.Parser in SingleValue
// mode; callers who need streaming or resumable parsing should use
// jsonstream.New directly.
func ParseString(s string) (*Value, error) {
	return ParseBytes([]byte(s))
}

// ParseBytes parses b as a single JSON value.
func ParseBytes(b []byte) (*Value, error) {
	p := jsonstream.New[*Value](jsonstream.SingleValue, NewBuilder(), nil)
	if _, err := p.Absorb(b); err != nil {
		return nil, err
	}
	values, err := p.Finish()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values[0], nil
}

// ParseReader reads r to completion and parses it as a single JSON value.
func ParseReader(r io.Reader) (*Value, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return ParseBytes(b)
}
