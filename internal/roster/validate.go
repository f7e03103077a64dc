package roster

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/sells-group/roster-cli/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// A Text counts as present when the upstream sent the key with a
	// non-null value, even an empty string.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if t, ok := field.Interface().(model.Text); ok && t.Valid {
			return true
		}
		return nil
	}, model.Text{})

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// decodeValid unmarshals raw into out and checks required fields.
func decodeValid(raw json.RawMessage, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return eris.Wrap(err, "roster: decode element")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			missing := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
			return eris.Errorf("roster: missing fields %s", strings.Join(missing, ", "))
		}
		return eris.Wrap(err, "roster: validate element")
	}
	return nil
}
