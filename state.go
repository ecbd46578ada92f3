package jsonstream

// gstate is a grammar state understood by the synchronous parser: a small,
// closed set of integers, each naming exactly what the parser expects to
// see next. Grammar states are always >= 0; the driver layers its own
// outer states (< 0, see driver.go) on top of the same state field so that
// a single integer plus a read offset plus a frame stack is always enough
// to resume.
type gstate int

const (
	stBeforeValue gstate = iota // expect the start of a value: literal, string, number, '[' or '{'

	stObjStart      // just consumed '{': expect '"' (a key) or '}'
	stObjKey        // just consumed ',' inside an object: expect '"'
	stObjColon      // just finished a key string: expect ':'
	stObjAfterValue // just finished a member's value: expect ',' or '}'

	stArrStart      // just consumed '[': expect a value or ']' (empty array allowed)
	stArrElement    // just consumed ',' inside an array: expect a value, ']' is illegal here
	stArrAfterValue // just finished an element: expect ',' or ']'

	stString        // lexing string body bytes (lexingKey tells key vs. value)
	stStringEscape  // just consumed '\\': expect an escape character
	stStringUnicode1
	stStringUnicode2
	stStringUnicode3
	stStringUnicode4

	stNumberMinus     // just consumed a leading '-': expect a digit
	stNumberZero      // the integer part is a single '0'
	stNumberIntDigits // consuming a nonzero-led run of integer digits
	stNumberFracStart // just consumed '.': expect a fraction digit
	stNumberFracDigits
	stNumberExpStart // just consumed 'e'/'E': expect a sign or a digit
	stNumberExpSign  // just consumed '+'/'-' in the exponent: expect a digit
	stNumberExpDigits

	stTrue1
	stTrue2
	stTrue3

	stFalse1
	stFalse2
	stFalse3
	stFalse4

	stNull1
	stNull2
	stNull3
)

// maxDepth bounds how deeply arrays/objects may nest, reported as a
// ParseError rather than silently corrupting a fixed-size stack.
const maxDepth = 1024

type frameKind int

const (
	frameArray frameKind = iota
	frameObject
)

// frame is an entry in the parser's open-container stack: the kind lets
// the state machine decide, once a nested container closes, whether the
// enclosing context expects a comma-then-value (array) or a
// comma-then-key (object) next.
type frame[V any] struct {
	kind frameKind
	f    Frame[V]
}
