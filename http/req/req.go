package req

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/xy-planning-network/relay"
)

// A Parser decodes and validates request parameters into structs.
type Parser struct {
	decoder *schema.Decoder
	validator
}

// NewParser constructs a Parser ignoring unknown keys
// and registering the custom validation rules of this package.
func NewParser() *Parser {
	return &Parser{
		decoder:   newQueryParamDecoder(),
		validator: newValidator(),
	}
}

// ParseForm decodes into a pointer to a struct the parameters of r,
// merging its query string with any url-encoded POST body.
// If successful, ParseForm runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
//
// ParseForm reads r.Body when it is a form and it can't be read from again.
func (p *Parser) ParseForm(r *http.Request, structPtr any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("relay/http/req: %w: failed parsing form: %s", relay.ErrBadFormat, err)
	}

	return p.ParseQueryParams(r.Form, structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in *http.Request.URL.Query.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if v := reflect.ValueOf(structPtr); v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("relay/http/req: %w: ParseQueryParams called with %T, not a pointer to a struct", relay.ErrUnexpected, structPtr)
	}

	if err := p.decoder.Decode(structPtr, params); err != nil {
		return fmt.Errorf("relay/http/req: failed decoding request query params: %w", translateDecoderError(err))
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("relay/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
