// Package validator provides small declarative validation rules.
//
// A Rule pairs a Check function with translation-friendly error metadata.
// Apply evaluates rules and aggregates the failures into ValidationErrors,
// which implements error:
//
//	err := validator.Apply(
//		validator.Required("name", name),
//		validator.ValidAlphanumeric("name", name),
//	)
//	if verrs := validator.ExtractValidationErrors(err); verrs != nil {
//		for _, field := range verrs.Fields() {
//			fmt.Println(field, verrs.Get(field))
//		}
//	}
//
// Every ValidationErrors value matches ErrValidationFailed with errors.Is.
package validator
