package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// Validation constants
	MaxTagValueLength = 255
	MaxTagKeyLength   = 64
	MaxExpansionLimit = 10_000_000

	// Regular expressions
	tagKeyPattern = regexp.MustCompile(`^[a-z_]+(?::[a-z_]+)*$`)
)

// Known routing profiles accepted by the API.
var KnownProfiles = []string{"pedestrian", "bicycle", "car", "motorcycle", "bus", "hgv", "delivery"}

func init() {
	validate = validator.New()
}

// RouteRequest represents a request for a shortest path between two nodes
type RouteRequest struct {
	From          int64    `json:"from" validate:"required"`
	To            int64    `json:"to" validate:"required"`
	Profile       string   `json:"profile" validate:"required"`
	At            string   `json:"at" validate:"omitempty,max=32"`
	WeightTonnes  *float64 `json:"weightTonnes" validate:"omitempty,gt=0"`
	HeightMeters  *float64 `json:"heightMeters" validate:"omitempty,gt=0"`
	MaxExpansions int      `json:"maxExpansions" validate:"omitempty,min=1"`
}

// TagRequest represents a request to validate a single conditional tag
type TagRequest struct {
	Key   string `json:"key" validate:"required,max=64"`
	Value string `json:"value" validate:"required,max=255"`
}

// AffectedRequest represents a request for edges restricted at an instant
type AffectedRequest struct {
	Profile string `json:"profile" validate:"required"`
	At      string `json:"at" validate:"omitempty,max=32"`
}

// ValidateRouteRequest validates a shortest-path request
func ValidateRouteRequest(req *RouteRequest) error {
	if req == nil {
		return errors.New("route request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.From == req.To {
		return errors.New("From: origin and destination must differ")
	}

	if err := validateProfile(req.Profile); err != nil {
		return err
	}

	if req.MaxExpansions > MaxExpansionLimit {
		return fmt.Errorf("MaxExpansions: must not exceed %d, got %d", MaxExpansionLimit, req.MaxExpansions)
	}

	return nil
}

// ValidateTagRequest validates a conditional-tag validation request
func ValidateTagRequest(req *TagRequest) error {
	if req == nil {
		return errors.New("tag request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if !tagKeyPattern.MatchString(req.Key) {
		return fmt.Errorf("Key: '%s' is not a valid tag key (lowercase words separated by colons)", req.Key)
	}

	return nil
}

// ValidateAffectedRequest validates an affected-edges request
func ValidateAffectedRequest(req *AffectedRequest) error {
	if req == nil {
		return errors.New("affected request cannot be nil")
	}

	// Validate using struct tags
	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	return validateProfile(req.Profile)
}

func validateProfile(profile string) error {
	for _, p := range KnownProfiles {
		if profile == p {
			return nil
		}
	}
	return fmt.Errorf("Profile: '%s' is not a known profile (one of %s)", profile, strings.Join(KnownProfiles, ", "))
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
