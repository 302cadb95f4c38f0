// Package uischema loads JSONForms-style layout documents that arrange form
// controls and attach SHOW/HIDE/ENABLE/DISABLE rules to them. Layouts are
// optional: forms built without one present every schema field in schema
// order, and every control stays visible and enabled.
package uischema
