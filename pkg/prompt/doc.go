// Package prompt defines the interactive prompt seam used by the session
// loop: read a line with a pre-filled default, or pick one of N labelled
// choices. NewSurveyDriver implements it on top of survey/v2.
package prompt
