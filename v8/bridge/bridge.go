// Package bridge converts values between Go and the embedded JavaScript
// engine.
package bridge

import (
	"fmt"
	"math"
	"math/big"

	jsoniter "github.com/json-iterator/go"
	"rogchap.com/v8go"
)

// Undefined marks the JavaScript undefined value on the Go side.
type Undefined byte

// JsValue cast a golang value to a JavaScript value. Scalars go through
// the engine directly; maps, slices and structs round-trip through JSON.
func JsValue(ctx *v8go.Context, value interface{}) (*v8go.Value, error) {

	switch v := value.(type) {

	case string, int32, uint32, int64, uint64, bool, *big.Int, float64:
		return v8go.NewValue(ctx.Isolate(), v)

	case int:
		return v8go.NewValue(ctx.Isolate(), int32(v))

	case int8:
		return v8go.NewValue(ctx.Isolate(), int32(v))

	case int16:
		return v8go.NewValue(ctx.Isolate(), int32(v))

	case uint:
		return v8go.NewValue(ctx.Isolate(), uint32(v))

	case uint8:
		return v8go.NewValue(ctx.Isolate(), uint32(v))

	case uint16:
		return v8go.NewValue(ctx.Isolate(), uint32(v))

	case float32:
		return v8go.NewValue(ctx.Isolate(), float64(v))

	default:
		return jsValueParse(ctx, v)
	}
}

func jsValueParse(ctx *v8go.Context, value interface{}) (*v8go.Value, error) {
	data, err := jsoniter.Marshal(value)
	if err != nil {
		return nil, err
	}
	return v8go.JSONParse(ctx, string(data))
}

// Valuers widen values for engine call sites
func Valuers(values []*v8go.Value) []v8go.Valuer {
	res := make([]v8go.Valuer, 0, len(values))
	for _, value := range values {
		res = append(res, value)
	}
	return res
}

// FreeJsValues release the values
func FreeJsValues(values []*v8go.Value) {
	for _, value := range values {
		if value != nil {
			value.Release()
		}
	}
}

// GoValue cast a JavaScript value to a golang value.
//
// *  ---------------------------------------------------
// *  | JavaScript            | Golang                  |
// *  ---------------------------------------------------
// *  | null                  | nil                     |
// *  | undefined             | bridge.Undefined        |
// *  | boolean               | bool                    |
// *  | number(int)           | int                     |
// *  | number(float)         | float64                 |
// *  | bigint                | int64                   |
// *  | string                | string                  |
// *  | object                | map[string]interface{}  |
// *  | array                 | []interface{}           |
// *  ---------------------------------------------------
func GoValue(value *v8go.Value) (interface{}, error) {

	if value.IsNull() {
		return nil, nil
	}

	if value.IsUndefined() {
		return Undefined(0x00), nil
	}

	if value.IsString() {
		return value.String(), nil
	}

	if value.IsBoolean() {
		return value.Boolean(), nil
	}

	if value.IsBigInt() {
		return value.BigInt().Int64(), nil
	}

	if value.IsNumber() {
		num := value.Number()
		if num == math.Trunc(num) && num >= math.MinInt32 && num <= math.MaxInt32 {
			return int(value.Int32()), nil
		}
		return num, nil
	}

	if value.IsFunction() || value.IsPromise() {
		return nil, fmt.Errorf("cannot export a %s value", value.DetailString())
	}

	// objects and arrays round-trip through JSON
	var goValue interface{}
	data, err := value.MarshalJSON()
	if err != nil {
		return nil, err
	}

	if err := jsoniter.Unmarshal(data, &goValue); err != nil {
		return nil, err
	}

	return goValue, nil
}
