package req

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/gorilla/schema"
	"github.com/rafacorp/recipes"
)

// A queryParamDecoder translates url.Values into a struct.
type queryParamDecoder interface {
	decode(structPtr any, params url.Values) error
}

type schemaDecoder struct {
	dec *schema.Decoder
}

func newQueryParamDecoder() schemaDecoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)

	return schemaDecoder{dec: dec}
}

func (s schemaDecoder) decode(structPtr any, params url.Values) error {
	if err := s.dec.Decode(structPtr, params); err != nil {
		return translateDecoderError(err)
	}

	return nil
}

// translateDecoderError converts an error returned by *schema.Decoder
// into standardized errors.
// Some *schema.Decoder errors are issues with calling code;
// some errors are unexpected issues;
// still some are issues with mismatches between a request's query params
// and the expected shape.
func translateDecoderError(err error) error {
	var pkgErrs schema.MultiError
	if !errors.As(err, &pkgErrs) {
		return fmt.Errorf("%w: %s", recipes.ErrBadFormat, err)
	}

	var validErrs ValidationErrors
	for _, pkgErr := range pkgErrs {
		switch err := pkgErr.(type) {
		case schema.ConversionError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				// For non-slice values, err.Index is -1.
				Got:  fmt.Sprintf("bad value at index %d", max(0, err.Index)),
				Rule: "must be " + err.Type.String(),
			})

		case schema.UnknownKeyError:
			validErrs = append(validErrs, ValidationError{
				Field: err.Key,
				Got:   "value is set",
				Rule:  "unexpected key should not be set",
			})

		default:
			// Everything else is likely a programming error,
			// and thus a show-stopper. Surface these immediately.
			return fmt.Errorf("%w: %s", recipes.ErrUnexpected, err)
		}
	}

	return validErrs
}
