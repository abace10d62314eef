package model

// ValidationOutcome is the transient result of checking one field or field pair.
type ValidationOutcome struct {
	Valid    bool     `json:"is_valid"`
	Warnings []string `json:"warnings"`
	Errors   []string `json:"errors"`
}

// Ok returns a valid outcome with no messages.
func Ok() ValidationOutcome {
	return ValidationOutcome{Valid: true, Warnings: []string{}, Errors: []string{}}
}

// Fail returns an invalid outcome with the given errors.
func Fail(errs ...string) ValidationOutcome {
	return ValidationOutcome{Valid: false, Warnings: []string{}, Errors: append([]string{}, errs...)}
}

// Warn appends a warning.
func (o *ValidationOutcome) Warn(msg string) {
	o.Warnings = append(o.Warnings, msg)
}

// Error appends an error and marks the outcome invalid.
func (o *ValidationOutcome) Error(msg string) {
	o.Valid = false
	o.Errors = append(o.Errors, msg)
}

// Merge combines two outcomes; the result is valid only if both are.
func (o ValidationOutcome) Merge(other ValidationOutcome) ValidationOutcome {
	return ValidationOutcome{
		Valid:    o.Valid && other.Valid,
		Warnings: append(append([]string{}, o.Warnings...), other.Warnings...),
		Errors:   append(append([]string{}, o.Errors...), other.Errors...),
	}
}

// AsValue converts the outcome into a nested analysis mapping.
func (o ValidationOutcome) AsValue() Value {
	return MapOf(
		E("is_valid", FlagOf(o.Valid)),
		E("warnings", ListOf(o.Warnings...)),
		E("errors", ListOf(o.Errors...)),
	)
}
