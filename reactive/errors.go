package reactive

import "errors"

var (
	// ErrNotConfigurable is returned when redefining or deleting a property
	// whose descriptor was defined with Configurable false.
	ErrNotConfigurable = errors.New("reactive: property is not configurable")

	// ErrNotExtensible is returned when defining a new property on a container
	// after PreventExtensions or Freeze.
	ErrNotExtensible = errors.New("reactive: container is not extensible")

	// ErrInvalidDescriptor is returned by DefineProperty when a descriptor mixes a
	// value with accessors.
	ErrInvalidDescriptor = errors.New("reactive: invalid property descriptor")

	// ErrInvalidPath is reported for watch expressions that are not simple
	// dot-delimited paths.
	ErrInvalidPath = errors.New("reactive: invalid watch path")
)
