package hcl_adapter

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ctyToAny converts a number, or an arbitrarily nested list or tuple of
// numbers, into float64 and []any values understood by tensor.FromAny.
// Strings holding numbers are accepted through cty's usual conversion.
func ctyToAny(val cty.Value) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("value must be known and not null")
	}

	ty := val.Type()
	if ty.IsListType() || ty.IsTupleType() {
		items := make([]any, 0, val.LengthInt())
		it := val.ElementIterator()
		for i := 0; it.Next(); i++ {
			_, elem := it.Element()
			item, err := ctyToAny(elem)
			if err != nil {
				return nil, fmt.Errorf("in element %d: %w", i, err)
			}
			items = append(items, item)
		}
		return items, nil
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return nil, fmt.Errorf("cannot use %s as a number: %w", ty.FriendlyName(), err)
	}
	var f float64
	if err := gocty.FromCtyValue(num, &f); err != nil {
		return nil, err
	}
	return f, nil
}
