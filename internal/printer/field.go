package printer

import (
	"fmt"

	"github.com/owkin/substra/internal/sdk"
)

// Field extracts one displayable value from a decoded asset.
type Field interface {
	Name() string
	Value(item sdk.Asset, expand bool) interface{}
}

type field struct {
	name string
	ref  string
}

// NewField returns a field displaying the value at a dotted composite key.
func NewField(name, ref string) Field {
	return field{name: name, ref: ref}
}

func (f field) Name() string { return f.name }

func (f field) Value(item sdk.Asset, expand bool) interface{} {
	return sdk.Lookup(item, f.ref)
}

// permissionField renders an empty permission list as "owner only".
type permissionField struct {
	field
}

// NewPermissionField returns a field for asset permissions.
func NewPermissionField(name, ref string) Field {
	return permissionField{field{name: name, ref: ref}}
}

func (f permissionField) Value(item sdk.Asset, expand bool) interface{} {
	value := f.field.Value(item, expand)
	if list, ok := value.([]interface{}); ok && len(list) == 0 {
		return "owner only"
	}
	return value
}

// dataSampleKeysField collapses key lists to a count unless expanded.
type dataSampleKeysField struct {
	field
}

// NewDataSampleKeysField returns a field for data sample key lists.
func NewDataSampleKeysField(name, ref string) Field {
	return dataSampleKeysField{field{name: name, ref: ref}}
}

func (f dataSampleKeysField) Value(item sdk.Asset, expand bool) interface{} {
	value := f.field.Value(item, expand)
	list, ok := value.([]interface{})
	if !ok || expand || len(list) == 0 {
		return value
	}
	if len(list) == 1 {
		return "1 data sample key"
	}
	return fmt.Sprintf("%d data sample keys", len(list))
}
