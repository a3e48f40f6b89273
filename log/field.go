package log

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType indicates type info about the Field.
type FieldType int

const (
	// InvalidType indicates that Field was not initialized correctly.
	InvalidType FieldType = iota
	IntType
	Int64Type
	StringType
	BoolType
	DurationType
	StringsType
	ErrorType
	AnyType
	StringerType
	TimeType
)

func (ft FieldType) String() string {
	return [...]string{
		"invalid", "int", "int64", "string", "bool", "time.Duration",
		"[]string", "error", "any", "stringer", "time.Time",
	}[ft]
}

// Field represents typed log field (a key-value pair). Adapters should
// determine Field's type based on Type and use the corresponding getter.
// Field must not be initialized directly as a struct literal.
type Field struct {
	ftype FieldType
	key   string

	vint int64
	vstr string
	vany interface{}
}

func (f Field) Type() FieldType {
	return f.ftype
}

func (f Field) Key() string {
	return f.key
}

func (f Field) StringValue() string {
	f.checkType(StringType)

	return f.vstr
}

func (f Field) IntValue() int {
	f.checkType(IntType)

	return int(f.vint)
}

func (f Field) Int64Value() int64 {
	f.checkType(Int64Type)

	return f.vint
}

func (f Field) BoolValue() bool {
	f.checkType(BoolType)

	return f.vint != 0
}

func (f Field) DurationValue() time.Duration {
	f.checkType(DurationType)

	return time.Duration(f.vint)
}

func (f Field) TimeValue() time.Time {
	f.checkType(TimeType)

	return f.vany.(time.Time) //nolint:forcetypeassert
}

func (f Field) StringsValue() []string {
	f.checkType(StringsType)
	if f.vany == nil {
		return nil
	}

	return f.vany.([]string) //nolint:forcetypeassert
}

func (f Field) ErrorValue() error {
	f.checkType(ErrorType)
	if f.vany == nil {
		return nil
	}

	return f.vany.(error) //nolint:forcetypeassert
}

func (f Field) AnyValue() interface{} {
	f.checkType(AnyType)

	return f.vany
}

func (f Field) Stringer() fmt.Stringer {
	f.checkType(StringerType)

	return f.vany.(fmt.Stringer) //nolint:forcetypeassert
}

// Panics on type mismatch
func (f Field) checkType(want FieldType) {
	if f.ftype != want {
		panic(fmt.Sprintf("bad type. have: %s, want: %s", f.ftype, want))
	}
}

// String returns default string representation of Field value.
// It should be used by adapters that don't support f.Type directly.
func (f Field) String() string {
	switch f.ftype {
	case IntType, Int64Type:
		return strconv.FormatInt(f.vint, 10)
	case StringType:
		return f.vstr
	case BoolType:
		return strconv.FormatBool(f.BoolValue())
	case DurationType:
		return f.DurationValue().String()
	case TimeType:
		return f.TimeValue().Format(dateLayout)
	case StringsType:
		return fmt.Sprintf("%v", f.StringsValue())
	case ErrorType:
		return fmt.Sprintf("%v", f.ErrorValue())
	case AnyType:
		return fmt.Sprint(f.vany)
	case StringerType:
		return f.Stringer().String()
	default:
		panic(fmt.Sprintf("unknown FieldType %d", f.ftype))
	}
}

func String(key string, value string) Field {
	return Field{
		ftype: StringType,
		key:   key,
		vstr:  value,
	}
}

func Int(key string, value int) Field {
	return Field{
		ftype: IntType,
		key:   key,
		vint:  int64(value),
	}
}

func Int64(key string, value int64) Field {
	return Field{
		ftype: Int64Type,
		key:   key,
		vint:  value,
	}
}

func Bool(key string, value bool) Field {
	var vint int64
	if value {
		vint = 1
	}

	return Field{
		ftype: BoolType,
		key:   key,
		vint:  vint,
	}
}

func Duration(key string, value time.Duration) Field {
	return Field{
		ftype: DurationType,
		key:   key,
		vint:  value.Nanoseconds(),
	}
}

func Time(key string, value time.Time) Field {
	return Field{
		ftype: TimeType,
		key:   key,
		vany:  value,
	}
}

func Strings(key string, value []string) Field {
	return Field{
		ftype: StringsType,
		key:   key,
		vany:  value,
	}
}

func NamedError(key string, value error) Field {
	return Field{
		ftype: ErrorType,
		key:   key,
		vany:  value,
	}
}

// Error is the same as NamedError("error", value)
func Error(value error) Field {
	return NamedError("error", value)
}

func Any(key string, value interface{}) Field {
	return Field{
		ftype: AnyType,
		key:   key,
		vany:  value,
	}
}

// Stringer constructs Field with StringerType. If value is nil,
// resulting Field will be of AnyType instead of StringerType.
func Stringer(key string, value fmt.Stringer) Field {
	if value == nil {
		return Any(key, nil)
	}

	return Field{
		ftype: StringerType,
		key:   key,
		vany:  value,
	}
}

func latencyField(start time.Time) Field {
	return Duration("latency", time.Since(start))
}

func appendFieldByCondition(condition bool, ifTrueField Field, fields ...Field) []Field {
	if condition {
		fields = append(fields, ifTrueField)
	}

	return fields
}
