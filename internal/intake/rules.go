package intake

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// Field paths used for validation scoping and error attribution.
const (
	FieldName               = "name"
	FieldAge                = "age"
	FieldGender             = "gender"
	FieldWeight             = "weight"
	FieldWeightUnit         = "weightUnit"
	FieldHeight             = "height"
	FieldHeightUnit         = "heightUnit"
	FieldSymptoms           = "symptoms"
	FieldMedicalImage       = "medicalImage"
	FieldImageDescription   = "imageDescription"
	FieldPastConditions     = "medicalHistory.pastConditions"
	FieldCurrentMedications = "medicalHistory.currentMedications"
)

// Limits enforced by the schema.
const (
	MaxImageBytes          = 10 << 20 // 10 MiB
	MaxImageDescriptionLen = 1000
)

// AllFields returns the complete field-path set. Validating against it is
// full-record validation.
func AllFields() []string {
	return []string{
		FieldName, FieldAge, FieldGender,
		FieldWeight, FieldWeightUnit,
		FieldHeight, FieldHeightUnit,
		FieldSymptoms,
		FieldMedicalImage, FieldImageDescription,
		FieldPastConditions, FieldCurrentMedications,
	}
}

// Result is a validation outcome: overall validity for the requested scope
// plus a mapping of field path to error messages for every failure.
type Result struct {
	Valid  bool
	Errors map[string][]string
}

func newResult() Result {
	return Result{Valid: true, Errors: make(map[string][]string)}
}

func (r *Result) add(path, msg string) {
	r.Valid = false
	r.Errors[path] = append(r.Errors[path], msg)
}

// Of returns the error messages attached to the given field path.
func (r Result) Of(path string) []string {
	return r.Errors[path]
}

// fieldRule is an independently evaluated rule for a single field path.
// Indexed symptom errors are attributed under derived paths (symptoms[i].name)
// but the rule itself belongs to the FieldSymptoms path for scoping.
type fieldRule struct {
	path  string
	check func(rec *Record, res *Result)
}

// crossRule depends on more than one field. It runs after all field rules,
// in registration order, whenever any referenced path is in scope, and
// attaches its error to a single primary path.
type crossRule struct {
	attachTo string
	refs     []string
	check    func(rec *Record, res *Result)
}

var fieldRules = []fieldRule{
	{FieldName, func(rec *Record, res *Result) {
		if rec.Name == "" {
			res.add(FieldName, "name is required")
		}
	}},
	{FieldAge, func(rec *Record, res *Result) {
		if rec.Age <= 0 {
			res.add(FieldAge, "age must be a positive whole number")
		}
	}},
	{FieldGender, func(rec *Record, res *Result) {
		if rec.Gender == "" {
			res.add(FieldGender, "gender is required")
		} else if !ValidGender(rec.Gender) {
			res.add(FieldGender, fmt.Sprintf("unknown gender %q", rec.Gender))
		}
	}},
	{FieldWeight, func(rec *Record, res *Result) {
		if rec.Weight != nil && *rec.Weight <= 0 {
			res.add(FieldWeight, "weight must be greater than zero")
		}
	}},
	{FieldWeightUnit, func(rec *Record, res *Result) {
		if rec.WeightUnit != "" && !ValidWeightUnit(rec.WeightUnit) {
			res.add(FieldWeightUnit, fmt.Sprintf("unknown weight unit %q", rec.WeightUnit))
		}
	}},
	{FieldHeight, func(rec *Record, res *Result) {
		if rec.Height != nil && *rec.Height <= 0 {
			res.add(FieldHeight, "height must be greater than zero")
		}
	}},
	{FieldHeightUnit, func(rec *Record, res *Result) {
		if rec.HeightUnit != "" && !ValidHeightUnit(rec.HeightUnit) {
			res.add(FieldHeightUnit, fmt.Sprintf("unknown height unit %q", rec.HeightUnit))
		}
	}},
	{FieldSymptoms, func(rec *Record, res *Result) {
		if len(rec.Symptoms) == 0 {
			res.add(FieldSymptoms, "at least one symptom is required")
			return
		}
		for i, s := range rec.Symptoms {
			if s.Name == "" {
				res.add(fmt.Sprintf("symptoms[%d].name", i), "symptom name is required")
			}
			if !ValidSeverity(s.Severity) {
				res.add(fmt.Sprintf("symptoms[%d].severity", i),
					fmt.Sprintf("severity must be one of %v", Severities()))
			}
		}
	}},
	{FieldMedicalImage, func(rec *Record, res *Result) {
		if rec.Image == nil {
			return
		}
		if rec.Image.Size() > MaxImageBytes {
			res.add(FieldMedicalImage, fmt.Sprintf("image exceeds the %s limit (%s)",
				humanize.IBytes(MaxImageBytes), humanize.IBytes(uint64(rec.Image.Size()))))
		}
		if !AllowedImageType(rec.Image.ContentType) {
			res.add(FieldMedicalImage,
				fmt.Sprintf("unsupported image type %q (allowed: JPEG, PNG, WebP, DICOM)", rec.Image.ContentType))
		}
	}},
	{FieldImageDescription, func(rec *Record, res *Result) {
		if len(rec.ImageDescription) > MaxImageDescriptionLen {
			res.add(FieldImageDescription,
				fmt.Sprintf("description must be at most %d characters", MaxImageDescriptionLen))
		}
	}},
}

// Cross-field rules in evaluation order; order matters for deterministic
// error attribution.
var crossRules = []crossRule{
	{
		attachTo: FieldWeightUnit,
		refs:     []string{FieldWeight, FieldWeightUnit},
		check: func(rec *Record, res *Result) {
			if rec.Weight != nil && rec.WeightUnit == "" {
				res.add(FieldWeightUnit, "weight unit is required when weight is provided")
			}
			if rec.Weight == nil && rec.WeightUnit != "" {
				res.add(FieldWeightUnit, "weight unit is only valid when weight is provided")
			}
		},
	},
	{
		attachTo: FieldHeightUnit,
		refs:     []string{FieldHeight, FieldHeightUnit},
		check: func(rec *Record, res *Result) {
			if rec.Height != nil && rec.HeightUnit == "" {
				res.add(FieldHeightUnit, "height unit is required when height is provided")
			}
			if rec.Height == nil && rec.HeightUnit != "" {
				res.add(FieldHeightUnit, "height unit is only valid when height is provided")
			}
		},
	},
	{
		attachTo: FieldImageDescription,
		refs:     []string{FieldMedicalImage, FieldImageDescription},
		check: func(rec *Record, res *Result) {
			if rec.Image != nil && rec.Image.Size() > 0 && rec.ImageDescription == "" {
				res.add(FieldImageDescription, "a description is required when an image is attached")
			}
		},
	},
}

// allowedImageTypes is the content-type allow-list for medical images.
var allowedImageTypes = map[string]bool{
	"image/jpeg":        true,
	"image/png":         true,
	"image/webp":        true,
	"application/dicom": true,
}

// AllowedImageType reports whether ct is on the medical-image allow-list.
func AllowedImageType(ct string) bool {
	return allowedImageTypes[ct]
}

// Validate runs the schema against rec, scoped to the given field paths.
// Only rules whose path, or whose cross-field references, intersect the scope
// are evaluated. Validate never mutates rec and never panics past this
// boundary: a misbehaving rule becomes an error on its own path.
func Validate(rec *Record, paths ...string) Result {
	res := newResult()
	if rec == nil {
		res.add(FieldName, "no record to validate")
		return res
	}

	scope := make(map[string]bool, len(paths))
	for _, p := range paths {
		scope[p] = true
	}

	for _, rule := range fieldRules {
		if !scope[rule.path] {
			continue
		}
		runRule(rec, &res, rule.path, rule.check)
	}
	for _, rule := range crossRules {
		inScope := false
		for _, ref := range rule.refs {
			if scope[ref] {
				inScope = true
				break
			}
		}
		if !inScope {
			continue
		}
		runRule(rec, &res, rule.attachTo, rule.check)
	}

	return res
}

// ValidateAll runs full-record validation, required before every submission
// regardless of which steps were visited.
func ValidateAll(rec *Record) Result {
	return Validate(rec, AllFields()...)
}

func runRule(rec *Record, res *Result, path string, check func(*Record, *Result)) {
	defer func() {
		if r := recover(); r != nil {
			res.add(path, fmt.Sprintf("validation failed: %v", r))
		}
	}()
	check(rec, res)
}
