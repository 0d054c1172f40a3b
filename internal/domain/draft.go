// SPDX-License-Identifier: Apache-2.0

package domain

// NoteDraft is the structured output of the drafting collaborator.
// ShouldCreateNote defaults to false; the collaborator is instructed
// to stay conservative when unsure.
type NoteDraft struct {
	ShouldCreateNote bool    `json:"should_create_note"`
	Title            string  `json:"title"`
	Content          string  `json:"content"`
	Confidence       float64 `json:"confidence"`
}
