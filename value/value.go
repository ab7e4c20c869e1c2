package value

// Kind classifies a dynamic value.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUint
	KindFloat
	KindString
	KindMap
	KindList
)

var kindNames = [...]string{
	KindNull:   "null",
	KindBool:   "bool",
	KindInt:    "int",
	KindUint:   "uint",
	KindFloat:  "float",
	KindString: "string",
	KindMap:    "map",
	KindList:   "list",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsNumber reports whether values of this kind can be read with Int,
// Uint or Float.
func (k Kind) IsNumber() bool {
	return k == KindInt || k == KindUint || k == KindFloat
}

// Value is read-only access to a dynamically typed value tree.
//
// Field distinguishes an absent field (ok == false) from a field that is
// present with a null value (Kind() == KindNull). The scalar accessors are
// only meaningful for the matching kind: Int for KindInt, Uint for
// KindUint, Float for any number, Text for KindString.
type Value interface {
	Kind() Kind
	Field(name string) (Value, bool)
	Len() int
	Index(i int) Value
	Bool() bool
	Int() int64
	Uint() uint64
	Float() float64
	Text() string
}

// Has reports whether v is a map holding name.
func Has(v Value, name string) bool {
	if v == nil || v.Kind() != KindMap {
		return false
	}
	_, ok := v.Field(name)
	return ok
}
