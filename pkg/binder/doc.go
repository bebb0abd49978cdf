// Package binder decodes HTML form submissions, including file uploads,
// into tagged structs. See Form.
package binder
