package sfbase

import "time"

type ValueType int

const (
	UnsetType ValueType = iota
	IntType
	UintType
	FloatType
	BoolType
	StringType
	TimeType
	ErrorType
	AnyType
)

// Field is one key/value pair on a span or event. Heavily influenced
// by Uber's zapcore.Field: a type tag plus a few payload slots so that
// the common scalar cases avoid boxing.
type Field struct {
	Key    string
	Type   ValueType
	Int    int64
	Uint   uint64
	Float  float64
	Bool   bool
	String string
	Any    interface{}
}

func Int64(k string, v int64) Field     { return Field{Key: k, Type: IntType, Int: v} }
func Int32(k string, v int32) Field     { return Field{Key: k, Type: IntType, Int: int64(v)} }
func Int(k string, v int) Field         { return Field{Key: k, Type: IntType, Int: int64(v)} }
func Uint64(k string, v uint64) Field   { return Field{Key: k, Type: UintType, Uint: v} }
func Uint32(k string, v uint32) Field   { return Field{Key: k, Type: UintType, Uint: uint64(v)} }
func Uint(k string, v uint) Field       { return Field{Key: k, Type: UintType, Uint: uint64(v)} }
func Float64(k string, v float64) Field { return Field{Key: k, Type: FloatType, Float: v} }
func Bool(k string, v bool) Field       { return Field{Key: k, Type: BoolType, Bool: v} }
func String(k string, v string) Field   { return Field{Key: k, Type: StringType, String: v} }
func Time(k string, v time.Time) Field  { return Field{Key: k, Type: TimeType, Any: v} }
func Error(k string, v error) Field     { return Field{Key: k, Type: ErrorType, Any: v} }

// Any captures a value that has no scalar representation. It will be
// rendered as the value's debug string, not serialized structurally.
func Any(k string, v interface{}) Field { return Field{Key: k, Type: AnyType, Any: v} }
