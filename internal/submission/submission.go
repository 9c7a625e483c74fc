// Package submission tracks the active submission and its reported progress.
package submission

import "github.com/google/uuid"

// Progress is the progress record reported by the backend for a submission.
// The store treats it as opaque.
type Progress struct {
	Stage   string `json:"stage"`
	Percent int    `json:"percent"`
}

// Store holds the active submission id and its last known progress. It has no
// fetch or persistence logic of its own.
type Store struct {
	submissionID string
	progress     *Progress
}

// NewStore creates an empty submission store.
func NewStore() *Store {
	return &Store{}
}

// SubmissionID returns the active submission id, or "" when none is set.
func (s *Store) SubmissionID() string {
	return s.submissionID
}

// Progress returns the last known progress, or nil.
func (s *Store) Progress() *Progress {
	if s.progress == nil {
		return nil
	}
	p := *s.progress
	return &p
}

// SetSubmissionID sets the active submission id.
func (s *Store) SetSubmissionID(id string) {
	s.submissionID = id
}

// SetProgress sets the last known progress. Pass nil to clear it.
func (s *Store) SetProgress(p *Progress) {
	if p == nil {
		s.progress = nil
		return
	}
	v := *p
	s.progress = &v
}

// Reset clears the submission id and progress.
func (s *Store) Reset() {
	s.submissionID = ""
	s.progress = nil
}

// NewID generates a client-side submission id.
func NewID() string {
	return uuid.NewString()
}
