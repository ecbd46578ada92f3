package jsonvalue

import (
	"strconv"

	"github.com/jsonstream/jsonstream"
)

// Builder is the default jsonstream.Builder[*Value]: jsonstream.Parser is
// polymorphic over any Builder, and this is simply the one shipped as a
// convenience.
type Builder struct{}

var _ jsonstream.Builder[*Value] = Builder{}

func NewBuilder() Builder { return Builder{} }

func (Builder) BeginArray() jsonstream.Frame[*Value]  { return &arrayFrame{} }
func (Builder) BeginObject() jsonstream.Frame[*Value] { return &objectFrame{} }

func (Builder) Null() *Value  { return &Value{kind: Null} }
func (Builder) True() *Value  { return &Value{kind: Boolean, boolean: true} }
func (Builder) False() *Value { return &Value{kind: Boolean, boolean: false} }

func (Builder) String(text string) *Value { return &Value{kind: String, str: text} }

// Number interprets literal as an Integer when it has no fractional or
// exponent part and fits in an int64, falling back to a float64 Number
// otherwise.
func (Builder) Number(literal string, hasFractionOrExp bool) *Value {
	if !hasFractionOrExp {
		if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
			return &Value{kind: Integer, intv: i}
		}
	}
	f, _ := strconv.ParseFloat(literal, 64)
	return &Value{kind: Number, num: f}
}

type arrayFrame struct {
	items []*Value
}

func (f *arrayFrame) AddKey(string)     { panic("jsonvalue: AddKey called on an array frame") }
func (f *arrayFrame) AddValue(v *Value) { f.items = append(f.items, v) }
func (f *arrayFrame) Finish() *Value    { return &Value{kind: Array, arr: f.items} }

type objectFrame struct {
	members    []Member
	pendingKey string
}

func (f *objectFrame) AddKey(key string) { f.pendingKey = key }
func (f *objectFrame) AddValue(v *Value) {
	f.members = append(f.members, Member{Key: f.pendingKey, Value: v})
}
func (f *objectFrame) Finish() *Value { return &Value{kind: Object, obj: f.members} }
