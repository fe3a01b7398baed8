package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/campus-portal/portal-service/internal/models"
)

var courseCodePattern = regexp.MustCompile(`^[A-Za-z0-9-]{2,32}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates struct tags and registered rules
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateAttendanceMark adds the cross-record rules on top of the struct tags.
func (bv *BusinessValidator) ValidateAttendanceMark(req *AttendanceMarkRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	seen := make(map[string]bool, len(req.Records))
	for _, r := range req.Records {
		code := strings.TrimSpace(r.StudentID)
		if seen[code] {
			errors = append(errors, ValidationError{
				Field:   "records",
				Message: "student listed more than once",
				Value:   code,
				Rule:    "unique_student",
			})
		}
		seen[code] = true
	}

	return errors
}

// ValidateEvaluation checks the score and the submission state machine.
func (bv *BusinessValidator) ValidateEvaluation(req *EvaluateRequest, current models.SubmissionStatus) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if !current.CanTransitionTo(models.SubmissionEvaluated) {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: "cannot transition from " + string(current) + " to " + string(models.SubmissionEvaluated),
			Value:   current,
			Rule:    "status_transition",
		})
	}

	return errors
}

func (bv *BusinessValidator) registerBusinessRules() {
	bv.validate.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		_, err := models.ParseDate(fl.Field().String())
		return err == nil
	})

	bv.validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		switch models.NormalizeStatus(fl.Field().String()) {
		case models.StatusPresent, models.StatusAbsent:
			return true
		}
		return false
	})

	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRole(fl.Field().String())
		return err == nil
	})

	// Admins are created by an admin or the seed command, never by sign-up.
	bv.validate.RegisterValidation("register_role", func(fl validator.FieldLevel) bool {
		role, err := models.ParseRole(fl.Field().String())
		return err == nil && role != models.RoleAdmin
	})

	bv.validate.RegisterValidation("score_range", func(fl validator.FieldLevel) bool {
		score := fl.Field().Int()
		return score >= 0 && score <= 100
	})

	bv.validate.RegisterValidation("course_code", func(fl validator.FieldLevel) bool {
		return courseCodePattern.MatchString(fl.Field().String())
	})
}
