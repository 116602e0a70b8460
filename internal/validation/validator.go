package validation

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "alicedata/internal/errors"
	"alicedata/pkg/contracts/domain"
)

// rateTolerance absorbs the one-decimal rounding of the component rates
const rateTolerance = 0.11

// Validator checks records and API queries against their struct tags
type Validator struct {
	validate *validator.Validate
}

// New creates a validator with the geolevel tag and record-level rules registered
func New() *Validator {
	v := validator.New()

	v.RegisterValidation("geolevel", isGeoLevel)
	v.RegisterStructValidation(validateRecordRates, domain.GeoRecord{})

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{validate: v}
}

func isGeoLevel(fl validator.FieldLevel) bool {
	return domain.GeoLevel(fl.Field().String()).Valid()
}

// validateRecordRates checks that the combined rate is the sum of its parts
// and that no rate exceeds 100
func validateRecordRates(sl validator.StructLevel) {
	r := sl.Current().Interface().(domain.GeoRecord)

	for _, rate := range []struct {
		name  string
		value float64
	}{
		{"povertyRate", r.PovertyRate},
		{"aliceRate", r.AliceRate},
		{"combinedRate", r.CombinedRate},
	} {
		if rate.value > 100 {
			sl.ReportError(rate.value, rate.name, rate.name, "lte100", "")
		}
	}

	if math.Abs(r.PovertyRate+r.AliceRate-r.CombinedRate) > rateTolerance {
		sl.ReportError(r.CombinedRate, "combinedRate", "combinedRate", "ratesum", "")
	}
}

// ValidateRecord checks one normalized record. The error is a VALIDATION
// AppError listing every failing field.
func (v *Validator) ValidateRecord(r domain.GeoRecord) error {
	fields := v.ValidateStruct(r)
	if len(fields) == 0 {
		return nil
	}

	appErr := apierrors.NewAppValidationError(fmt.Sprintf("record %s failed validation", r.GeoID)).
		WithContext("geo_id", r.GeoID)
	for _, f := range fields {
		appErr.WithContext(f.Field, f.Message)
	}
	return appErr
}

// ValidateStruct returns one entry per failing field, or nil
func (v *Validator) ValidateStruct(s interface{}) []apierrors.ValidationError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []apierrors.ValidationError{{Field: "", Message: err.Error()}}
	}

	out := make([]apierrors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatFieldError(fe),
		})
	}
	return out
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "numeric":
		return "must contain only digits"
	case "geolevel":
		return fmt.Sprintf("%v is not a known geographic level", fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "lte100":
		return "must not exceed 100"
	case "ratesum":
		return "must equal povertyRate plus aliceRate"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// RecordsQuery filters the record listing of the read API
type RecordsQuery struct {
	State  string          `json:"state" validate:"omitempty,max=64"`
	Level  domain.GeoLevel `json:"level" validate:"omitempty,geolevel"`
	Year   int             `json:"year" validate:"omitempty,min=1900,max=2100"`
	Limit  int             `json:"limit" validate:"omitempty,min=1,max=5000"`
	Offset int             `json:"offset" validate:"min=0"`
}

// ParseRecordsQuery reads and validates the listing query. Malformed numbers
// and failed tags both produce a 400 APIError.
func (v *Validator) ParseRecordsQuery(values url.Values) (RecordsQuery, error) {
	q := RecordsQuery{
		State: strings.TrimSpace(values.Get("state")),
		Level: domain.GeoLevel(strings.ToLower(strings.TrimSpace(values.Get("level")))),
	}

	var fields []apierrors.ValidationError
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"year", &q.Year},
		{"limit", &q.Limit},
		{"offset", &q.Offset},
	} {
		raw := strings.TrimSpace(values.Get(p.name))
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			fields = append(fields, apierrors.ValidationError{Field: p.name, Message: "must be an integer"})
			continue
		}
		*p.dst = n
	}

	fields = append(fields, v.ValidateStruct(q)...)
	if len(fields) > 0 {
		return RecordsQuery{}, apierrors.NewValidationErrors(fields)
	}
	return q, nil
}

// Matches reports whether r passes the query's filters
func (q RecordsQuery) Matches(r domain.GeoRecord) bool {
	if q.State != "" && !strings.EqualFold(q.State, r.State) && !strings.EqualFold(q.State, r.StateAbbr) {
		return false
	}
	if q.Level != "" && q.Level != r.GeoLevel {
		return false
	}
	if q.Year != 0 && q.Year != r.Year {
		return false
	}
	return true
}
