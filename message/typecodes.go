package message

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

var (
	// ErrNilCommandType indicates that Register received a nil value.
	ErrNilCommandType = errors.New("message: command type is nil")
	// ErrDuplicateTypeCode indicates that a code or type was registered twice.
	ErrDuplicateTypeCode = errors.New("message: duplicate type code")
	// ErrUnknownCommandType indicates a lookup for an unregistered type.
	ErrUnknownCommandType = errors.New("message: unknown command type")
	// ErrUnknownTypeCode indicates a lookup for an unregistered code.
	ErrUnknownTypeCode = errors.New("message: unknown type code")
)

// TypeCodes maps concrete command types to stable numeric codes, so the
// consuming side can reconstruct the concrete type without embedding Go
// type names in the wire format.
type TypeCodes struct {
	mu     sync.RWMutex
	byCode map[uint32]reflect.Type
	byType map[reflect.Type]uint32
}

// NewTypeCodes creates an empty registry.
func NewTypeCodes() *TypeCodes {
	return &TypeCodes{
		byCode: make(map[uint32]reflect.Type),
		byType: make(map[reflect.Type]uint32),
	}
}

// Register binds a numeric code to the concrete type of prototype.
func (r *TypeCodes) Register(code uint32, prototype any) error {
	if prototype == nil {
		return ErrNilCommandType
	}

	t := normalizeType(prototype)

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byCode[code]; ok && existing != t {
		return fmt.Errorf("%w: code %d already bound to %s", ErrDuplicateTypeCode, code, existing)
	}
	if existing, ok := r.byType[t]; ok && existing != code {
		return fmt.Errorf("%w: type %s already bound to code %d", ErrDuplicateTypeCode, t, existing)
	}

	r.byCode[code] = t
	r.byType[t] = code

	return nil
}

// CodeFor returns the numeric code for the concrete type of v.
func (r *TypeCodes) CodeFor(v any) (uint32, error) {
	if v == nil {
		return 0, ErrNilCommandType
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	code, ok := r.byType[normalizeType(v)]
	if !ok {
		return 0, fmt.Errorf("%w: %T", ErrUnknownCommandType, v)
	}

	return code, nil
}

// NewOf allocates a zero value of the type registered under code.
// The result is always a pointer to the registered struct type.
func (r *TypeCodes) NewOf(code uint32) (any, error) {
	r.mu.RLock()
	t, ok := r.byCode[code]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTypeCode, code)
	}

	return reflect.New(t.Elem()).Interface(), nil
}

func normalizeType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	if t == nil {
		return nil
	}
	if t.Kind() != reflect.Pointer {
		t = reflect.PointerTo(t)
	}
	return t
}
