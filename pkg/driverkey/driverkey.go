// Package driverkey decodes an opaque tuning key into the driver options
// that reproduce its convolution configuration. A key is a fixed positional
// grammar: fields separated by '-', decoded strictly by position. The
// grammar is deliberately brittle: an extra field, a non-numeric value in a
// numeric position, or an unknown data-type token is fatal to the run, not
// a recoverable warning.
package driverkey

import (
	"strconv"
	"strings"

	"github.com/ROCm/pdbmerge/pkg/errors"
)

// options accumulates the decoded invocation: an optional data-type prefix
// followed by flag/value pairs in grammar order.
type options struct {
	prefix string
	args   []string
}

func (o *options) add(flag string, value int) {
	o.args = append(o.args, flag, strconv.Itoa(value))
}

// fieldSpec describes one position of the key grammar.
type fieldSpec struct {
	name   string
	decode func(part string, out *options) error
}

// intField emits a single flag with the field's integer value.
func intField(flag string) func(string, *options) error {
	return func(part string, out *options) error {
		n, err := strconv.Atoi(part)
		if err != nil {
			return err
		}
		out.add(flag, n)
		return nil
	}
}

// pairField decodes an AxB sub-field and emits firstFlag with one half and
// secondFlag with the other, selected by swap. A field without an 'x'
// stands for both halves at once (e.g. "3" reads as 3x3).
func pairField(firstFlag, secondFlag string, swap bool) func(string, *options) error {
	return func(part string, out *options) error {
		first, second, found := strings.Cut(part, "x")
		if !found {
			second = part
		}
		a, err := strconv.Atoi(first)
		if err != nil {
			return err
		}
		b, err := strconv.Atoi(second)
		if err != nil {
			return err
		}
		if swap {
			a, b = b, a
		}
		out.add(firstFlag, a)
		out.add(secondFlag, b)
		return nil
	}
}

// ignoredField consumes the position without emitting anything.
func ignoredField(part string, out *options) error {
	return nil
}

func dataTypeField(part string, out *options) error {
	switch part {
	case "FP16":
		out.prefix = "fp16"
	case "FP32":
		out.prefix = ""
	default:
		return errors.New("unknown data type: " + part)
	}
	return nil
}

func directionField(part string, out *options) error {
	if part == "F" {
		out.args = append(out.args, "-F", "1")
	} else {
		out.args = append(out.args, "-F", "0")
	}
	return nil
}

// grammar is the full positional key grammar, in decode order. Axis
// permutations on the paired fields are fixed: kernel size, stride, and
// dilation swap halves on output, padding does not.
var grammar = []fieldSpec{
	{name: "channels", decode: intField("-c")},
	{name: "height", decode: intField("-H")},
	{name: "width", decode: intField("-W")},
	{name: "kernel_size", decode: pairField("-x", "-y", true)},
	{name: "kernel_count", decode: intField("-k")},
	{name: "out_height", decode: ignoredField},
	{name: "out_width", decode: ignoredField},
	{name: "batch_size", decode: intField("-n")},
	{name: "padding", decode: pairField("-p", "-q", false)},
	{name: "stride", decode: pairField("-u", "-v", true)},
	{name: "dilation", decode: pairField("-l", "-j", true)},
	{name: "group_count", decode: intField("-b")},
	{name: "in_layout", decode: ignoredField},
	{name: "data_type", decode: dataTypeField},
	{name: "direction", decode: directionField},
}

// Decode translates a tuning key into the driver option string reproducing
// its configuration. It is a pure function: the same key always decodes to
// the same string. Any grammar violation returns a KeyError, which callers
// treat as fatal.
func Decode(key string) (string, error) {
	parts := strings.Split(key, "-")
	if len(parts) > len(grammar) {
		return "", errors.NewKeyError(key, len(grammar), "too many fields")
	}

	var out options
	for i, part := range parts {
		if err := grammar[i].decode(part, &out); err != nil {
			return "", errors.NewKeyError(key, i, grammar[i].name+": "+err.Error())
		}
	}

	opts := strings.Join(out.args, " ")
	if out.prefix != "" {
		if opts == "" {
			return out.prefix, nil
		}
		return out.prefix + " " + opts, nil
	}
	return opts, nil
}
