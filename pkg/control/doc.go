// Package control implements the generic form control: one controlled input
// whose behaviour is chosen by a Type discriminator. Every mode reports
// updates through the same Change value and receives its error string from
// upstream validation.
package control
