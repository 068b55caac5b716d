package parser

import (
	"io"
)

// Handler of page parser results, invoked in document order.
type HandlerFunc[Result any] func(val Result)

// Generic page parser.
type Parser[Result any] interface {
	Parse(payload io.Reader, handler HandlerFunc[Result]) error
}

// Adapter to allow a use of functions as Generic Parser.
type Func[Result any] func(payload io.Reader, handler HandlerFunc[Result]) error

// Implements of Generic Parser interface.
func (fnc Func[Result]) Parse(payload io.Reader, handler HandlerFunc[Result]) error {
	return fnc(payload, handler)
}

// Keeps the first value it is handed and ignores the rest.
type FirstOf[Result any] struct {
	value Result
	found bool
}

func (f *FirstOf[Result]) Handle(val Result) {
	if !f.found {
		f.value, f.found = val, true
	}
}

func (f *FirstOf[Result]) Get() (Result, bool) {
	return f.value, f.found
}

// Returns the first result produced by the parser and whether any was found.
func First[Result any](p Parser[Result], payload io.Reader) (Result, bool, error) {
	var first FirstOf[Result]

	err := p.Parse(payload, first.Handle)
	val, found := first.Get()

	return val, found, err
}
