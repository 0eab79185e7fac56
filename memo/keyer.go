package memo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Keyer derives deterministic cache keys from call arguments.
//
// Contract:
// - Determinism: equal argument lists must produce equal keys.
// - Injectivity: argument lists differing in count, per-position type or
//   per-position value must produce different keys.
// - Concurrency: implementations must be safe for concurrent use.
type Keyer interface {
	// Key generates a cache key from an ordered argument list.
	Key(args []any) (string, error)
}

// DefaultKeyer builds readable keys of the form
//
//	<type>:<value>,<type>:<value>,...
//
// where type is the Go type name, so 1 (int) and "1" (string) never collide.
// Named types are qualified by import path, as in example.com/model.ID.
// A nil argument stands for an absent value and is encoded as nil:null.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a new default keyer.
func NewDefaultKeyer() *DefaultKeyer {
	return &DefaultKeyer{}
}

// Key generates the cache key for args.
func (k *DefaultKeyer) Key(args []any) (string, error) {
	var b strings.Builder
	for i, arg := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := writeArg(&b, i, arg); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func writeArg(b *strings.Builder, pos int, arg any) error {
	if arg == nil {
		b.WriteString("nil:null")
		return nil
	}

	v := reflect.ValueOf(arg)
	b.WriteString(typeName(v.Type()))
	b.WriteByte(':')

	switch v.Kind() {
	case reflect.String:
		b.WriteString(strconv.Quote(v.String()))
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(v.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(v.Uint(), 10))
	case reflect.Float32:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 32))
	case reflect.Float64:
		b.WriteString(strconv.FormatFloat(v.Float(), 'g', -1, 64))
	default:
		return fmt.Errorf("%w: argument %d has type %T", ErrUnsupportedArgument, pos, arg)
	}
	return nil
}

// typeName qualifies named types with their import path, since two packages
// may share a name.
func typeName(t reflect.Type) string {
	if t.PkgPath() == "" {
		return t.String()
	}
	return t.PkgPath() + "." + t.Name()
}

// HashKeyer wraps another Keyer and replaces its keys with their SHA-256
// digest, bounding key length for long string arguments.
type HashKeyer struct {
	inner Keyer
}

// NewHashKeyer creates a HashKeyer over inner. A nil inner uses DefaultKeyer.
func NewHashKeyer(inner Keyer) *HashKeyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &HashKeyer{inner: inner}
}

// Key generates a 64 character hex key.
func (k *HashKeyer) Key(args []any) (string, error) {
	key, err := k.inner.Key(args)
	if err != nil {
		return "", err
	}
	return digest(key), nil
}

func digest(key string) string {
	hash := sha256.Sum256([]byte(key))
	return hex.EncodeToString(hash[:])
}

// keyDigest is the log form of a cache key. Readable keys embed argument
// values, so logs carry a digest that is computed only when an entry is
// actually written.
type keyDigest string

func (k keyDigest) String() string {
	return digest(string(k))[:16]
}

// MarshalJSON implements json.Marshaler.
func (k keyDigest) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(k.String())), nil
}

// Ensure keyers implement Keyer
var (
	_ Keyer = (*DefaultKeyer)(nil)
	_ Keyer = (*HashKeyer)(nil)
)
