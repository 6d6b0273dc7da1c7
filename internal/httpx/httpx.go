package httpx

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/go-playground/validator/v10"
)

// DecodeJSON reads exactly one JSON object into v. Fields v does not declare
// are ignored, so clients may send back records they fetched earlier.
func DecodeJSON(body io.Reader, v interface{}) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// ValidationDetails maps each failing field, by its JSON name, to the failed tag.
func ValidationDetails(errs validator.ValidationErrors) map[string]string {
	if len(errs) == 0 {
		return nil
	}
	details := make(map[string]string, len(errs))
	for _, err := range errs {
		details[err.Field()] = err.Tag()
	}
	return details
}
