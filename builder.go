package jsonstream

// Frame is an open container (array or object) under construction. The
// parser never inspects a Frame's contents; it only appends to it and,
// eventually, finishes it into a value.
type Frame[V any] interface {
	// AddKey records the key that the next AddValue call will be paired
	// with. Legal only on frames returned by Builder.BeginObject.
	AddKey(key string)
	// AddValue appends a value to the frame's container. On an object
	// frame, it is paired with whatever key the most recent AddKey call
	// supplied.
	AddValue(v V)
	// Finish finalizes the frame into a value of the builder's type. The
	// frame must not be used again afterward.
	Finish() V
}

// Builder is the external collaborator the parser is polymorphic over: it
// never constructs a JSON value directly, only asks the Builder to.
// Numeric interpretation is left entirely to the Builder — the parser
// hands it the raw lexical span and a flag for whether a '.', 'e', or 'E'
// appeared.
type Builder[V any] interface {
	BeginArray() Frame[V]
	BeginObject() Frame[V]

	Null() V
	True() V
	False() V
	String(text string) V
	// Number receives the exact lexical span of the number literal and
	// whether it contained a fractional or exponent part. It does not
	// parse the numeric value itself.
	Number(literal string, hasFractionOrExp bool) V
}
