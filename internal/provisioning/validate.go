package provisioning

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/nuqta-dev/tenadmin/internal/i18n"
	"github.com/nuqta-dev/tenadmin/pkg/saas"
)

var fieldValidator = newFieldValidator()

func newFieldValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError scopes a validation message to a single form field.
type FieldError struct {
	Field   string
	Message i18n.Message
}

// ValidationErrors blocks a stage transition. It never reaches the network.
type ValidationErrors []FieldError

func (ve ValidationErrors) Error() string {
	fields := make([]string, len(ve))
	for i, fe := range ve {
		fields[i] = fe.Field
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Field returns the message attached to the named field.
func (ve ValidationErrors) Field(name string) (i18n.Message, bool) {
	for _, fe := range ve {
		if fe.Field == name {
			return fe.Message, true
		}
	}
	return i18n.Message{}, false
}

func collectTagErrors(err error) ValidationErrors {
	if err == nil {
		return nil
	}
	var out ValidationErrors
	if errs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range errs {
			out = append(out, FieldError{Field: fe.Field(), Message: messageForTag(fe)})
		}
	}
	return out
}

func messageForTag(fe validator.FieldError) i18n.Message {
	switch fe.Tag() {
	case "min":
		return msgPasswordTooShort
	default:
		return msgRequired
	}
}

// looseEmail mirrors the backend admin panel's permissive email check:
// presence of both "@" and ".".
func looseEmail(s string) bool {
	return strings.Contains(s, "@") && strings.Contains(s, ".")
}

type stage1Required struct {
	ArabicName   string `json:"arabic_name" validate:"required"`
	EnglishName  string `json:"english_name" validate:"required"`
	Subdomain    string `json:"subdomain" validate:"required"`
	ActivityType string `json:"activity_type" validate:"required"`
}

type stage2Required struct {
	ClientArabicName  string `json:"client_arabic_name" validate:"required"`
	ClientEnglishName string `json:"client_english_name" validate:"required"`
	ClientEmail       string `json:"client_email" validate:"required"`
	ClientPhone       string `json:"client_phone" validate:"required"`
}

type stage3Required struct {
	ManagerUsername string `json:"manager_username" validate:"required"`
	ManagerEmail    string `json:"manager_email" validate:"required"`
	ManagerPassword string `json:"manager_password" validate:"required,min=6"`
}

func (f Form) validateStage1() ValidationErrors {
	errs := collectTagErrors(fieldValidator.Struct(stage1Required{
		ArabicName:   f.ArabicName,
		EnglishName:  f.EnglishName,
		Subdomain:    f.Subdomain,
		ActivityType: string(f.ActivityType),
	}))

	if f.ActivityType == saas.ActivityOther && strings.TrimSpace(f.OtherActivityType) == "" {
		errs = append(errs, FieldError{Field: "other_activity_type", Message: msgOtherActivityRequired})
	}

	start, startErr := parseOptionalDate(f.StartDate)
	if startErr != nil {
		errs = append(errs, FieldError{Field: "start_date", Message: msgInvalidDate})
	}
	end, endErr := parseOptionalDate(f.EndDate)
	if endErr != nil {
		errs = append(errs, FieldError{Field: "end_date", Message: msgInvalidDate})
	}
	if startErr == nil && endErr == nil && !start.IsZero() && !end.IsZero() && !start.Before(end) {
		errs = append(errs, FieldError{Field: "end_date", Message: msgEndBeforeStart})
	}

	if price := strings.TrimSpace(f.SubscriptionPrice); price != "" {
		if !validPrice(price) {
			errs = append(errs, FieldError{Field: "subscription_price", Message: msgInvalidPrice})
		}
	}

	return errs
}

func (f Form) validateStage2() ValidationErrors {
	errs := collectTagErrors(fieldValidator.Struct(stage2Required{
		ClientArabicName:  f.ClientArabicName,
		ClientEnglishName: f.ClientEnglishName,
		ClientEmail:       f.ClientEmail,
		ClientPhone:       f.ClientPhone,
	}))

	if f.ClientEmail != "" && !looseEmail(f.ClientEmail) {
		errs = append(errs, FieldError{Field: "client_email", Message: msgInvalidEmail})
	}

	return errs
}

func (f Form) validateStage3() ValidationErrors {
	errs := collectTagErrors(fieldValidator.Struct(stage3Required{
		ManagerUsername: f.ManagerUsername,
		ManagerEmail:    f.ManagerEmail,
		ManagerPassword: f.ManagerPassword,
	}))

	if f.ManagerEmail != "" && !looseEmail(f.ManagerEmail) {
		errs = append(errs, FieldError{Field: "manager_email", Message: msgInvalidEmail})
	}

	return errs
}

func parseOptionalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(saas.DateLayout, s)
}
