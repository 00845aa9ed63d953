package defaults

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
)

const (
	codecNameJSON = "json"
	codecNameCBOR = "cbor"
)

// Codec encodes values of non-native types to bytes and back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// JSONCodec is the default Codec, backed by json-iterator in standard library compatible mode.
type JSONCodec struct {
	api jsoniter.API
}

// NewJSONCodec creates a JSONCodec.
func NewJSONCodec() JSONCodec {
	return JSONCodec{api: jsoniter.ConfigCompatibleWithStandardLibrary}
}

// Marshal encodes v as JSON.
func (c JSONCodec) Marshal(v any) ([]byte, error) {
	return c.jsonAPI().Marshal(v)
}

// Unmarshal decodes JSON data into v.
func (c JSONCodec) Unmarshal(data []byte, v any) error {
	return c.jsonAPI().Unmarshal(data, v)
}

// Name returns "json".
func (c JSONCodec) Name() string {
	return codecNameJSON
}

func (c JSONCodec) jsonAPI() jsoniter.API {
	if c.api == nil {
		return jsoniter.ConfigCompatibleWithStandardLibrary
	}

	return c.api
}

// CBORCodec encodes with deterministic CBOR. It produces smaller payloads than JSON
// and keeps integer and float kinds apart.
type CBORCodec struct {
	em cbor.EncMode
	dm cbor.DecMode
}

// NewCBORCodec creates a CBORCodec.
func NewCBORCodec() (*CBORCodec, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR encoder: %w", err)
	}

	dm, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		IndefLength:     cbor.IndefLengthAllowed,
		MaxNestedLevels: 64,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("create CBOR decoder: %w", err)
	}

	return &CBORCodec{em: em, dm: dm}, nil
}

// Marshal encodes v as CBOR.
func (c *CBORCodec) Marshal(v any) ([]byte, error) {
	return c.em.Marshal(v)
}

// Unmarshal decodes CBOR data into v.
func (c *CBORCodec) Unmarshal(data []byte, v any) error {
	return c.dm.Unmarshal(data, v)
}

// Name returns "cbor".
func (c *CBORCodec) Name() string {
	return codecNameCBOR
}

var (
	_ Codec = JSONCodec{}
	_ Codec = (*CBORCodec)(nil)
)
