// Package validator validates tagged structs (payloads, usecase inputs) and
// reports failures as a field to message map keyed by the JSON field name.
package validator
