package traits

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// DType is the array element type.
type DType string

// Array element types.
const (
	DTypeFloat DType = "float"
	DTypeInt   DType = "int"
)

// Base is the common part of all datatypes. It needs to be embedded by each registered datatype struct.
type Base struct {
	// GID is the global identifier of the datatype instance. It is set on the first store.
	GID uuid.UUID
	// Title is the human readable datatype title.
	Title string
	// Subject is the subject the data belongs to.
	Subject string
	// CreatedAt is the time when the datatype was stored for the first time.
	CreatedAt time.Time
	// Handles are the persisted array references keyed by the field storage name.
	// A field with a handle and without a value is a lazy array.
	Handles map[string]*ArrayHandle
	// Refs are the persisted references keyed by the field storage name.
	Refs map[string]uuid.UUID
}

// TraitsBase implements Datatype interface.
func (b *Base) TraitsBase() *Base {
	return b
}

// Handle gets the array handle for the field with provided storage 'name'.
func (b *Base) Handle(name string) (*ArrayHandle, bool) {
	h, ok := b.Handles[name]
	return h, ok && h != nil
}

// SetHandle sets the array handle for the field with provided storage 'name'.
func (b *Base) SetHandle(name string, h *ArrayHandle) {
	if b.Handles == nil {
		b.Handles = map[string]*ArrayHandle{}
	}
	b.Handles[name] = h
}

// SetRef sets the reference 'gid' for the field with provided storage 'name'.
func (b *Base) SetRef(name string, gid uuid.UUID) {
	if b.Refs == nil {
		b.Refs = map[string]uuid.UUID{}
	}
	b.Refs[name] = gid
}

// ArrayHandle is the reference to the persisted array.
type ArrayHandle struct {
	// Key is the storage key prefix of the array chunks.
	Key string `json:"key"`
	// Shape is the full array shape.
	Shape []int `json:"shape"`
	// DType is the array element type.
	DType DType `json:"dtype"`
	// ChunkRows is the number of the first axis rows stored in a single chunk.
	ChunkRows int `json:"chunk_rows"`
	// Chunks is the number of stored chunks.
	Chunks int `json:"chunks"`
}

// Rows gets the length of the first axis.
func (h *ArrayHandle) Rows() int {
	if len(h.Shape) == 0 {
		return 0
	}
	return h.Shape[0]
}

// Datatype is the interface implemented by all the structs that embed the Base.
type Datatype interface {
	TraitsBase() *Base
}

// Typer is the interface that allows to set custom datatype type tag.
// By default the tag is the name of the struct.
type Typer interface {
	TypeTag() string
}

// BaseTyper is the interface that declares the base type tags of given datatype.
// The embedded datatype structs are implicit bases.
type BaseTyper interface {
	BaseTags() []string
}

// Configurer is the interface implemented by the datatypes that derive their attributes.
type Configurer interface {
	Configure() error
}

// Validator is the interface implemented by the datatypes with additional validation rules.
type Validator interface {
	ValidateTraits() error
}

// Summarizer is the interface implemented by the datatypes that extend the summary information.
type Summarizer interface {
	SummaryInfo() map[string]string
}

var (
	baseType     = reflect.TypeOf(Base{})
	datatypeType = reflect.TypeOf((*Datatype)(nil)).Elem()
)
