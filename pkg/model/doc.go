// Package model defines the value objects the form builder composes: an
// Application holds ordered Steps, each Step holds ordered Field definitions,
// and select/choice fields carry ordered bilingual Choices. Field types form a
// closed set; ControlType maps each onto the discriminator understood by the
// generic form control in pkg/control.
package model
